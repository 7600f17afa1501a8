package di

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssargent/bandkit/pkg/api"
	"github.com/ssargent/bandkit/pkg/codec"
)

type stubStarter struct{ called bool }

func (s *stubStarter) StartServer(api.IBandStore, *codec.PixelCodec, api.ServerConfig) error {
	s.called = true
	return nil
}

type stubServerFactory struct{ starter *stubStarter }

func (f *stubServerFactory) CreateServerStarter() api.ServerStarter { return f.starter }

func TestContainer(t *testing.T) {
	c := NewContainer()
	assert.NotNil(t, c.GetStoreFactory())
	assert.NotNil(t, c.GetServerFactory())

	starter := &stubStarter{}
	c.SetServerFactory(&stubServerFactory{starter: starter})
	err := c.GetServerFactory().CreateServerStarter().StartServer(nil, nil, api.ServerConfig{})
	assert.NoError(t, err)
	assert.True(t, starter.called)

	c.SetStoreFactory(nil)
	assert.Nil(t, c.GetStoreFactory())
}
