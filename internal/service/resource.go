package service

import (
	"errors"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceOption customizes the goal, plan and workout services.
type ResourceOption func(*resourceBase)

// WithNow replaces the clock used for default windows and summaries.
func WithNow(now func() time.Time) ResourceOption {
	return func(b *resourceBase) {
		b.now = now
	}
}

// resourceBase is shared by the owner-scoped resource services.
type resourceBase struct {
	events EventPublisher
	now    func() time.Time
	log    zerolog.Logger
}

func newResourceBase(component string, events EventPublisher, opts []ResourceOption) resourceBase {
	b := resourceBase{
		events: publisherOrNop(events),
		now:    time.Now,
		log:    logger.WithComponent(component),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// emit publishes a change event to the owner. Publishing never fails the
// calling operation.
func (b *resourceBase) emit(ownerID primitive.ObjectID, event string, payload any) {
	b.events.Emit(ownerID.Hex(), event, payload)
}

// translate maps repository failures onto the error taxonomy. A missing or
// foreign record becomes notFound.
func translate(err error, notFound *apperror.Error, action string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return apperror.Internal(action, err)
}
