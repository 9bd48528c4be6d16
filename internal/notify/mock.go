package notify

import (
	"fmt"

	"estate-backend/internal/verification"
)

// MockSender prints codes to the console instead of sending them (for
// development and tests).
type MockSender struct{}

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (s *MockSender) SendCode(channel verification.Channel, destination, code string) error {
	fmt.Printf("\n========== MOCK OTP ==========\n")
	fmt.Printf("Channel: %s\n", channel)
	fmt.Printf("To: %s\n", destination)
	fmt.Printf("Code: %s\n", code)
	fmt.Printf("==============================\n\n")
	return nil
}
