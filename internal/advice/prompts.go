package advice

import (
	"fmt"
	"strconv"

	"github.com/gymmate/gymmate/internal/store"
)

// Canned texts. "offline" is used without credentials, "failed" when the provider errs.
const (
	tipOffline = "Remember to stay hydrated throughout the day. It's key for performance and recovery!"
	tipFailed  = "Consistency is your superpower. Keep showing up for yourself!"

	goalPlanOffline = "### Diet Plan\n- Focus on whole foods.\n- Drink plenty of water.\n\n### Exercise Plan\n- Stay consistent with your workouts.\n- Ensure you get adequate rest."
	goalPlanFailed  = "Could not generate a plan. Please check your inputs and try again."

	weeklyPlanOffline = "### Weekly Split\n- **Day 1:** Full Body Strength\n- **Day 2:** Rest\n- **Day 3:** Full Body Strength\n- **Day 4:** Rest\n- **Day 5:** Full Body Strength\n- **Day 6 & 7:** Active Recovery / Rest"
	weeklyPlanFailed  = "Could not generate a weekly workout plan at this time."

	mealOffline = "A grilled chicken salad with a light vinaigrette."
	mealFailed  = "Try something with lean protein and plenty of vegetables!"

	workoutOffline = "Try 3 sets of 12 bodyweight squats."
	workoutFailed  = "A brisk 20-minute walk is always a great choice!"

	mealPrompt    = "Suggest a simple, healthy, high-protein meal idea. Keep it under 15 words."
	workoutPrompt = "Suggest a quick, effective workout idea or a single exercise to try. Keep it under 15 words."
	genericTip    = "Give me a short, encouraging fitness or hydration tip for the day. Keep it under 20 words. Be positive and motivating."
)

func briefingOffline(name string) string {
	return fmt.Sprintf("Consistency is the key to unlocking your full potential, %s. You've got this!", name)
}

func briefingFailed(name string) string {
	return fmt.Sprintf("Let's make today a great day, %s!", name)
}

func tipPrompt(c *TipContext) string {
	if c == nil {
		return genericTip
	}
	return fmt.Sprintf("Given my activity today (Workout: %d%% complete, Breakfast: \"%s\", Lunch: \"%s\"), provide a short, personalized, and encouraging fitness or diet tip. Keep it under 25 words. Be positive and motivating.",
		c.WorkoutProgress, c.Breakfast, c.Lunch)
}

func briefingPrompt(c BriefingContext) string {
	workout := "Not completed"
	if c.WorkoutCompleted {
		workout = "Completed"
	}
	protein := "Not met"
	if c.ProteinGoalMet {
		protein = "Met"
	}
	return fmt.Sprintf(`Act as a friendly, motivational fitness coach. My user's name is %[1]s.

        Here's their context:
        - Yesterday's workout: %[2]s.
        - Yesterday's protein goal: %[3]s.
        - Today's workout progress: %[4]d%%.

        Generate a short (1-2 sentence) personalized daily briefing for their dashboard.
        - Acknowledge yesterday's performance (good or bad).
        - Provide a forward-looking, actionable tip for today based on their current workout progress.
        - Be encouraging and positive.

        Example for good yesterday, 0%% today: "Great job completing your workout yesterday, %[1]s! A new day is a new opportunity. Let's get that workout started!"
        Example for missed yesterday, 60%% today: "Yesterday is in the past, %[1]s. You're already crushing it today at 60%% - let's finish strong!"`,
		c.Name, workout, protein, c.WorkoutProgress)
}

func goalPlanPrompt(p store.UserProfile, targetWeight float64, targetDate string) string {
	goal := "lose"
	if targetWeight > p.Weight {
		goal = "gain"
	}
	return fmt.Sprintf(`Act as an expert fitness and nutrition coach. My user wants to %s weight.

        Here is my profile:
        - Current Weight: %s kg
        - Height: %s cm
        - 1-Rep Maxes: %s

        My goal is to reach %s kg by %s.

        Please generate a concise, actionable diet and exercise plan for me.
        - Use markdown for formatting.
        - Use ### for headers (e.g., ### Diet Plan).
        - Use bullet points for recommendations.
        - The plan should be simple and easy to follow.
        - Provide 3-4 key points for diet and 3-4 for exercise.
        - Keep the entire response under 150 words.`,
		goal, num(p.Weight), num(p.Height), maxes(p.PRs), num(targetWeight), targetDate)
}

func weeklyPlanPrompt(p store.UserProfile) string {
	return fmt.Sprintf(`Act as an expert fitness coach. Based on my profile below, create a concise 3-day per week workout split for me.

        Profile:
        - Weight: %s kg
        - Height: %s cm
        - 1-Rep Maxes: %s

        Requirements:
        - Use markdown for formatting.
        - Use ### for the main header.
        - Use **- Day X:** for each day's title.
        - List 2-3 key exercises for each day.
        - Keep the entire response under 100 words.`,
		num(p.Weight), num(p.Height), maxes(p.PRs))
}

func maxes(prs store.PersonalRecords) string {
	return fmt.Sprintf("Bench: %skg, Squat: %skg, Deadlift: %skg", num(prs.Bench), num(prs.Squat), num(prs.Deadlift))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
