// Package main implements the Lambda handler invoked by EventBridge
// Scheduler when a hangout's reminder window opens. The schedule's static
// payload names the hangout; the handler claims the send so retries and
// overlapping schedules notify at most once.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"hangout-backend/infrastructure/config"
	"hangout-backend/infrastructure/di"
	pkgerrors "hangout-backend/pkg/errors"
)

var container *di.Container

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependency container: %v", err)
	}

	container.Logger.Info("Reminder dispatcher initialized")
}

// ReminderRequest is the static payload configured on a schedule.
//
// Action "dispatch" (the default) claims and sends the reminder for a
// hangout. Action "arm" records the schedule resource on the hangout;
// with Rearm set it also clears the sent stamp so a rescheduled hangout
// can notify again.
type ReminderRequest struct {
	Action       string `json:"action,omitempty"`
	HangoutID    string `json:"hangout_id"`
	ScheduleName string `json:"schedule_name,omitempty"`
	Rearm        bool   `json:"rearm,omitempty"`
}

// ReminderResponse reports what a run did.
type ReminderResponse struct {
	HangoutID string `json:"hangout_id"`
	Action    string `json:"action"`
	Sent      bool   `json:"sent"`
}

func handle(ctx context.Context, req ReminderRequest) (*ReminderResponse, error) {
	if req.HangoutID == "" {
		return nil, fmt.Errorf("missing hangout_id in schedule payload")
	}

	action := req.Action
	if action == "" {
		action = "dispatch"
	}

	resp := &ReminderResponse{HangoutID: req.HangoutID, Action: action}

	err := container.Tracer.Capture(ctx, "reminder."+action, func(ctx context.Context) error {
		switch action {
		case "dispatch":
			sent, err := container.Hangouts.MarkReminderSent(ctx, req.HangoutID)
			if err != nil {
				return err
			}
			container.Metrics.RecordReminderDispatch(ctx, sent)
			resp.Sent = sent
			return nil
		case "arm":
			if req.ScheduleName == "" {
				return fmt.Errorf("missing schedule_name for arm")
			}
			if req.Rearm {
				return container.Hangouts.RearmReminder(ctx, req.HangoutID, req.ScheduleName)
			}
			return container.Hangouts.ScheduleReminder(ctx, req.HangoutID, req.ScheduleName)
		default:
			return fmt.Errorf("unknown action: %s", action)
		}
	})
	if err != nil {
		// A schedule can fire after its hangout is deleted. Nothing to
		// notify; swallow so the scheduler does not retry.
		if errors.Is(err, pkgerrors.ErrHangoutNotFound) {
			container.Logger.Warn("Reminder fired for missing hangout",
				zap.String("hangout_id", req.HangoutID),
				zap.String("action", action),
			)
			return resp, nil
		}
		return nil, err
	}

	return resp, nil
}

func main() {
	lambda.Start(handle)
}
