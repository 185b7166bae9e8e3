package coresync

import "context"

// TestConnection posts a fixed probe workout (5 reps of "Test Push-ups")
// and reports whether the service accepted it. Failures are logged with
// the reason; nothing is raised.
func (c *Client) TestConnection(ctx context.Context) bool {
	c.logger.Info().Msg("testing CoreSync connection")

	result, err := c.LogWorkout(ctx, Workout{
		ExerciseName: "Test Push-ups",
		Reps:         5,
		Notes:        "Connection test from pushlog",
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("connection test failed, check your API token and network")
		return false
	}

	c.logger.Info().Str("workout_id", result.WorkoutID).Msg("connection test passed")
	return true
}

// LogSessionSummary reports the total rep count of a finished session
// using the client's default exercise. A session with no reps is not
// sent and yields false.
func (c *Client) LogSessionSummary(ctx context.Context, repCount int) bool {
	if repCount <= 0 {
		c.logger.Info().Msg("no reps recorded in this session")
		return false
	}

	c.logger.Info().Int("total_reps", repCount).Msg("workout session complete")
	if _, err := c.LogWorkout(ctx, Workout{Reps: repCount}); err != nil {
		c.logger.Error().Err(err).Msg("failed to log session")
		return false
	}
	return true
}
