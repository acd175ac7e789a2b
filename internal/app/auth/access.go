package auth

import (
	"context"

	"meetscribe/internal/app/errors"
	"meetscribe/internal/app/repository"
)

// AccessChecker answers whether a user may touch a meeting. Identity and
// membership live in the surrounding product; this is the boundary the
// pipeline consumes them through.
type AccessChecker interface {
	// CanAccessMeeting returns nil when userID may operate on the meeting,
	// errors.ErrAccessDenied otherwise.
	CanAccessMeeting(ctx context.Context, userID, meetingID string) error
}

// RepositoryAccessChecker grants access to the meeting owner and to members
// of the meeting's project.
type RepositoryAccessChecker struct {
	meetings repository.MeetingRepository
	projects repository.ProjectRepository
}

// NewRepositoryAccessChecker creates the default checker.
func NewRepositoryAccessChecker(meetings repository.MeetingRepository, projects repository.ProjectRepository) *RepositoryAccessChecker {
	return &RepositoryAccessChecker{meetings: meetings, projects: projects}
}

func (c *RepositoryAccessChecker) CanAccessMeeting(ctx context.Context, userID, meetingID string) error {
	meeting, err := c.meetings.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.OwnerID == userID {
		return nil
	}
	if meeting.ProjectID != "" {
		member, err := c.projects.IsMember(ctx, meeting.ProjectID, userID)
		if err != nil {
			return err
		}
		if member {
			return nil
		}
	}
	return errors.ErrAccessDenied
}
