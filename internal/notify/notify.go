package notify

import (
	"fmt"

	"estate-backend/internal/verification"
)

// CodeSender delivers an OTP to a destination. Delivery is best-effort:
// the verification state change commits first, then the send happens on
// its own goroutine, and a failed send never rolls anything back.
type CodeSender interface {
	SendCode(channel verification.Channel, destination, code string) error
}

// Dispatcher routes codes to the email or SMS provider by channel.
type Dispatcher struct {
	Email CodeSender
	SMS   CodeSender
}

func NewDispatcher(email, sms CodeSender) *Dispatcher {
	return &Dispatcher{Email: email, SMS: sms}
}

func (d *Dispatcher) SendCode(channel verification.Channel, destination, code string) error {
	switch channel {
	case verification.ChannelEmail:
		return d.Email.SendCode(channel, destination, code)
	case verification.ChannelMobile:
		return d.SMS.SendCode(channel, destination, code)
	}
	return fmt.Errorf("unknown channel %q", channel)
}
