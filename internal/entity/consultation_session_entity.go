package entity

import (
	"time"

	"legifai-be/pkg/store"
)

type ConsultationSession struct {
	SessionKey string
	Turns      []store.Turn
	Context    store.RetrievedContext
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
