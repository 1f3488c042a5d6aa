package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no session identifies a user with stored data.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnavailable wraps backend read and write failures.
	ErrUnavailable = errors.New("storage unavailable")
)

// Key is the fixed storage key the document lives under.
const Key = "gymmate_data"

// Document is the entire persisted state.
type Document struct {
	Users       []User              `json:"users"`
	CurrentUser *string             `json:"currentUser"`
	AppData     map[string]*AppData `json:"appData"`
}

// User is a registered account.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	// Password holds clear-text credentials written by older clients. It is
	// replaced by PasswordHash on the next successful login.
	Password string `json:"password,omitempty"`
}

// AppData is the per-user namespace.
type AppData struct {
	Profile          UserProfile                 `json:"profile"`
	WorkoutTemplates []WorkoutTemplate           `json:"workoutTemplates"`
	MealTemplates    []MealTemplate              `json:"mealTemplates"`
	DietLogs         map[string]*DailyDietLog    `json:"dietLogs"`
	WorkoutLogs      map[string]*DailyWorkoutLog `json:"workoutLogs"`
}

// UserProfile holds body measurements and personal records.
type UserProfile struct {
	Name          string          `json:"name"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	Height        float64         `json:"height"`
	Weight        float64         `json:"weight"`
	WeightHistory []WeightEntry   `json:"weightHistory"`
	PRs           PersonalRecords `json:"prs"`
}

// WeightEntry is one dated body-weight measurement.
type WeightEntry struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PersonalRecords are one-rep maxes in kg.
type PersonalRecords struct {
	Bench    float64 `json:"bench"`
	Squat    float64 `json:"squat"`
	Deadlift float64 `json:"deadlift"`
}

// WorkoutTemplate is a named, reusable exercise list.
type WorkoutTemplate struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
}

// TemplateExercise is one exercise of a template.
type TemplateExercise struct {
	ExerciseID   string `json:"exerciseId"`
	ExerciseName string `json:"exerciseName"`
	SetCount     int    `json:"setCount"`
	Reps         int    `json:"reps"`
}

// MealType tags a meal with the time of day it belongs to.
type MealType string

// Meal types.
const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// MealTypes lists the valid meal types.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// ParseMealType validates a meal type name.
func ParseMealType(s string) (MealType, error) {
	for _, t := range MealTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// Macros are the four tracked nutrition values.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the elementwise sum.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// DefaultGoals are the daily targets of a new diet log.
var DefaultGoals = Macros{Calories: 2500, Protein: 180, Carbs: 250, Fat: 80}

// Meal is a logged meal.
type Meal struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type MealType `json:"type"`
	Macros
}

// MealItem is a meal template entry; it has no identity and no type of its own.
type MealItem struct {
	Name string `json:"name"`
	Macros
}

// MealTemplate is a named group of items logged together.
type MealTemplate struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Type  MealType   `json:"type"`
	Items []MealItem `json:"items"`
}

// DailyDietLog is one day of meals. Totals always equals the sum of Meals.
type DailyDietLog struct {
	Date   string `json:"date"`
	Meals  []Meal `json:"meals"`
	Totals Macros `json:"totals"`
	Goals  Macros `json:"goals"`
}

// NewDailyDietLog returns an empty log with default goals.
func NewDailyDietLog(date string) *DailyDietLog {
	return &DailyDietLog{Date: date, Meals: []Meal{}, Goals: DefaultGoals}
}

// DailyWorkoutLog is one day of training.
type DailyWorkoutLog struct {
	Exercises []WorkoutLog `json:"exercises"`
	Level     int          `json:"level"`
}

// WorkoutLog is one exercise performed on a day. IDs are numeric and may be
// fractional: older clients wrote a millisecond timestamp plus a random fraction.
type WorkoutLog struct {
	ID           float64      `json:"id"`
	ExerciseID   string       `json:"exerciseId"`
	ExerciseName string       `json:"exerciseName"`
	Sets         []WorkoutSet `json:"sets"`
}

// WorkoutSet holds reps and weight as entered; both are numeric strings.
type WorkoutSet struct {
	ID        float64 `json:"id"`
	Reps      string  `json:"reps"`
	Weight    string  `json:"weight"`
	Completed bool    `json:"completed"`
}

// EmptyDocument returns the document used when nothing is stored.
func EmptyDocument() *Document {
	return &Document{Users: []User{}, AppData: map[string]*AppData{}}
}

// FindUser returns the index of the user with email, or -1.
func (d *Document) FindUser(email string) int {
	for i, u := range d.Users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

// UserData returns the namespace of email, or ErrUnauthenticated when the
// email is empty or has no stored data.
func (d *Document) UserData(email string) (*AppData, error) {
	if email == "" {
		return nil, ErrUnauthenticated
	}
	data, ok := d.AppData[email]
	if !ok || data == nil {
		return nil, ErrUnauthenticated
	}
	return data, nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	body, err := json.Marshal(d)
	if err != nil {
		panic(fmt.Sprintf("store: cloning document: %v", err))
	}
	out := EmptyDocument()
	if err := json.Unmarshal(body, out); err != nil {
		panic(fmt.Sprintf("store: cloning document: %v", err))
	}
	out.normalize()
	return out
}

// normalize fills in collections missing from older or hand-edited documents.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.AppData == nil {
		d.AppData = map[string]*AppData{}
	}
	for email, data := range d.AppData {
		if data == nil {
			delete(d.AppData, email)
			continue
		}
		data.normalize()
	}
}

func (a *AppData) normalize() {
	if a.WorkoutTemplates == nil {
		a.WorkoutTemplates = []WorkoutTemplate{}
	}
	if a.MealTemplates == nil {
		a.MealTemplates = []MealTemplate{}
	}
	if a.DietLogs == nil {
		a.DietLogs = map[string]*DailyDietLog{}
	}
	if a.WorkoutLogs == nil {
		a.WorkoutLogs = map[string]*DailyWorkoutLog{}
	}
	if a.Profile.WeightHistory == nil {
		a.Profile.WeightHistory = []WeightEntry{}
	}
	for date, l := range a.DietLogs {
		if l == nil {
			delete(a.DietLogs, date)
			continue
		}
		if l.Meals == nil {
			l.Meals = []Meal{}
		}
		if l.Date == "" {
			l.Date = date
		}
	}
	for date, l := range a.WorkoutLogs {
		if l == nil || len(l.Exercises) == 0 {
			delete(a.WorkoutLogs, date)
		}
	}
}
