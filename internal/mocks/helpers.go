package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockDoerForTest creates a new mock Doer for testing
func NewMockDoerForTest(t *testing.T) *MockDoer {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDoer(ctrl)
}
