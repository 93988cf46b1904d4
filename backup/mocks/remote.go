package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"harvesterbilling/backup"
)

type Remote struct {
	mock.Mock
}

func (m *Remote) Find(ctx context.Context, token, name string) (*backup.RemoteFile, error) {
	args := m.Called(ctx, token, name)
	f, _ := args.Get(0).(*backup.RemoteFile)
	return f, args.Error(1)
}

func (m *Remote) Create(ctx context.Context, token, name string, data []byte) (*backup.RemoteFile, error) {
	args := m.Called(ctx, token, name, data)
	f, _ := args.Get(0).(*backup.RemoteFile)
	return f, args.Error(1)
}

func (m *Remote) Update(ctx context.Context, token, id string, data []byte) error {
	args := m.Called(ctx, token, id, data)
	return args.Error(0)
}

func (m *Remote) Download(ctx context.Context, token, id string) ([]byte, error) {
	args := m.Called(ctx, token, id)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}
