package coresync

// DefaultExercise is used when a workout does not name an exercise.
const DefaultExercise = "Push-ups"

// Workout is one exercise session to report.
type Workout struct {
	// ExerciseName names the exercise. Empty means the client default.
	ExerciseName string

	// Reps is the total number of repetitions completed. The client does
	// not validate this; the service rejects non-positive values with 400.
	Reps int

	// Sets is the number of sets. Values below 1 are sent as 1.
	Sets int

	// Notes is free-form text. Empty means an auto-logged marker is sent.
	Notes string
}

// logRequest is the wire payload for the workout log endpoint.
// It carries exactly these four fields.
type logRequest struct {
	ExerciseName string `json:"exercise_name"`
	Reps         int    `json:"reps"`
	Sets         int    `json:"sets"`
	Notes        string `json:"notes"`
}

// LogResult is the service's response to an accepted workout.
type LogResult struct {
	// Message is a human-readable confirmation from the service.
	Message string `json:"message"`

	// Calories is the service's calorie estimate for the session.
	Calories float64 `json:"calories"`

	// WorkoutID is the server-assigned identifier of the stored entry.
	WorkoutID string `json:"workout_id"`
}
