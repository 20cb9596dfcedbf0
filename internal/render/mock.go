package render

import (
	"io"

	"github.com/stretchr/testify/mock"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(w io.Writer, name string, data map[string]any) error {
	args := m.Called(w, name, data)
	return args.Error(0)
}
