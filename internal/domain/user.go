package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered rider. Credentials and XP are owned by other services;
// this repository only needs the identity and the display nickname.
type User struct {
	ID        uuid.UUID
	Nickname  string
	Email     string
	CreatedAt time.Time
}
