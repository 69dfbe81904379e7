package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Declaration  DeclarationRepository
	Verification VerificationRepository
	Match        MatchRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Session:      NewSessionRepository(db),
		Declaration:  NewDeclarationRepository(db),
		Verification: NewVerificationRepository(db),
		Match:        NewMatchRepository(db),
		Notification: NewNotificationRepository(db),
	}
}
