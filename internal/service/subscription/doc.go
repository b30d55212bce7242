// Package subscription implements the sign-up and confirmation workflows.
//
// The service layer contains all business logic for accepting a new
// subscriber, persisting it together with its confirmation token, sending
// the confirmation email, and later flipping the subscriber to confirmed.
// It depends on the Repository and EmailSender interfaces defined in this
// package and should never import from api/.
//
// The Repository implementation lives in internal/repository/postgres;
// EmailSender implementations live in internal/postmark and internal/ses.
package subscription
