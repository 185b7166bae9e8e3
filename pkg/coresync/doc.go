// Package coresync provides a client for the CoreSync workout logging API.
//
// The client performs a single synchronous POST per workout. Authentication
// is a pre-issued static token sent in the X-API-Token header; there are no
// retries and no local queueing.
//
// # Usage
//
// Create a client and log a workout:
//
//	client, err := coresync.NewClient(coresync.Config{
//	    ServiceURL: "https://api.coresync.fit",
//	    APIToken:   "cs_...",
//	})
//	if err != nil {
//	    return err
//	}
//
//	result, err := client.LogWorkout(ctx, coresync.Workout{Reps: 30})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.WorkoutID, result.Calories)
//
// # Errors
//
// Transport failures are returned wrapped; non-200 responses are returned
// as *StatusError carrying the status code and raw response body. Use
// IsAuthError and IsValidationError to distinguish rejected tokens (401)
// from rejected payloads (400).
//
// # Custom Transports
//
// Pass WithHTTPClient to supply any implementation of the HTTPClient
// interface, e.g. for tests or instrumented transports.
package coresync
