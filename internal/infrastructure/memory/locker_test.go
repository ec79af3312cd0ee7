package memory

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Comercio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	l := NewLocker()
	l.clock = func() time.Time { return now }

	release, err := l.Obtain(ctx, "payroll:c1:2026-02", time.Minute)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "payroll:c1:2026-02", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)

	_, err = l.Obtain(ctx, "payroll:c2:2026-02", time.Minute)
	assert.NoError(t, err, "otra llave es independiente")

	require.NoError(t, release(ctx))
	again, err := l.Obtain(ctx, "payroll:c1:2026-02", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = l.Obtain(ctx, "payroll:c1:2026-02", time.Minute)
	assert.NoError(t, err, "la llave vencida se puede tomar")
	require.NoError(t, again(ctx), "liberar una llave ajena no borra la vigente")
	_, err = l.Obtain(ctx, "payroll:c1:2026-02", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)
}
