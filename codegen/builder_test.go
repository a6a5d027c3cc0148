package codegen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	d "github.com/roveo/topo-vba/declarations"
)

func TestBuilder_ConcurrentUse(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New(WithLogger(zap.New(core)), WithNewline(NewlineLF), WithIndent(2))

	area := member("Area", d.Function, d.Public, "Double",
		param("height", "Double", 30, d.ByVal),
		param("width", "Double", 15, d.ByVal),
	)
	name := field("mName", "String", d.Private)
	values := field("mValues", "Long", d.Private)
	values.IsArray = true
	values.ArraySubscripts = "1 To 5"
	proc := &d.Declaration{Name: "Reset", Type: d.Procedure}
	members := []UDTMemberPrototype{
		{Field: name, Identifier: "Name"},
		{Field: values, Identifier: "Values"},
	}

	wantSig := b.ImprovedSignature(area)
	wantLet, ok, err := b.BuildPropertyBlock(name, d.PropertyLet, "Name")
	require.NoError(t, err)
	require.True(t, ok)
	wantUDT, err := b.BuildUDT("TState", members, d.Implicit)
	require.NoError(t, err)
	logs.TakeAll()

	const workers, rounds = 16, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				assert.Equal(t, wantSig, b.ImprovedSignature(area))

				let, ok, err := b.BuildPropertyBlock(name, d.PropertyLet, "Name")
				assert.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, wantLet, let)

				_, ok, err = b.BuildPropertyBlock(proc, d.PropertyGet, "Reset")
				assert.NoError(t, err)
				assert.False(t, ok)

				udt, err := b.BuildUDT("TState", members, d.Implicit)
				assert.NoError(t, err)
				assert.Equal(t, wantUDT, udt)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, "Public Function Area(ByVal width As Double, ByVal height As Double) As Double", wantSig)
	assert.Equal(t, "Private Type TState\n  Name As String\n  Values(1 To 5) As Long\nEnd Type", wantUDT)
	assert.Equal(t, workers*rounds, logs.Len())
	// shared prototypes are left untouched
	assert.Equal(t, "height", area.Parameters[0].Name)
}
