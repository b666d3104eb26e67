package platform

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("tickdesk")
	assert.Equal(t, port, portFromName("tickdesk"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSecondInstanceActivatesFirst(t *testing.T) {
	appName := fmt.Sprintf("tickdesk-test-%d", time.Now().UnixNano())

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	activated := make(chan struct{}, 1)
	guard.OnActivate(func() { activated <- struct{}{} })

	second, err := AcquireSingleInstance(appName)
	assert.Nil(t, second)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("first instance was not activated")
	}
}

func TestReleaseFreesLock(t *testing.T) {
	appName := fmt.Sprintf("tickdesk-release-%d", time.Now().UnixNano())

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	assert.Equal(t, guard.Address(), again.Address())
	require.NoError(t, again.Release())
}

func TestNilGuard(t *testing.T) {
	var guard *InstanceGuard
	assert.NoError(t, guard.Release())
	assert.Empty(t, guard.Address())
	guard.OnActivate(func() {})
}
