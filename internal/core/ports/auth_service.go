package ports

import (
	"context"

	"github.com/dbu-council/council-system/internal/core/domain"
)

// RegisterInput carries self-registration data. Role is never accepted from
// the client here; self-registered accounts are students.
type RegisterInput struct {
	Name       string
	Username   string
	Email      string
	Password   string
	Department string
	Year       string
}

// AuthService implements registration, login, and the password flows.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	// Login returns a signed token and the account on success. Repeated
	// failures lock the account via a single conditional store update.
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	ChangePassword(ctx context.Context, accountID, current, next string) error
	// ForgotPassword enqueues a reset mail when the account exists; the result
	// is identical either way so the endpoint cannot be used as an oracle.
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ResetTokenStore holds opaque password-reset tokens with a TTL.
type ResetTokenStore interface {
	Save(ctx context.Context, token, accountID string) error
	// Consume returns the account id for token and invalidates it; a missing
	// or expired token yields domain.ErrInvalidResetToken.
	Consume(ctx context.Context, token string) (string, error)
}

// Mail is one outbound message. Delivery is fire-and-forget, best effort.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a single mail synchronously; the queue dispatcher provides the
// asynchronous, best-effort front.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// MailEnqueuer is the fire-and-forget side the services depend on.
type MailEnqueuer interface {
	Enqueue(m Mail)
}
