package polarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		diff float64
		want State
	}{
		{-10, UltimateQi},
		{-7, ExtremeYin},
		{-5, ExtremeYin},
		{-2.5, CriticalYin},
		{-1, CriticalYin},
		{0, Balance},
		{1, CriticalYang},
		{2.5, CriticalYang},
		{5, ExtremeYang},
		{7, ExtremeYang},
		{10, UltimateQi},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.diff), "Classify(%v)", tt.diff)
		})
	}
}

func TestClassify_Interior(t *testing.T) {
	tests := []struct {
		diff float64
		want State
	}{
		{0.99, Balance},
		{-0.99, Balance},
		{3, YangProsperity},
		{4.99, YangProsperity},
		{-3, YinProsperity},
		{-4.99, YinProsperity},
		{6, ExtremeYang},
		{-6, ExtremeYin},
		{7.01, UltimateQi},
		{-8, UltimateQi},
		{10.01, Undefined},
		{-11, Undefined},
		{math.NaN(), Undefined},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.diff), "Classify(%v)", tt.diff)
	}
}

func TestClassify_TotalOverAllocations(t *testing.T) {
	// Every allocation inside a pool of 10 lands in exactly one defined state.
	for yang := 0.0; yang <= 10; yang += 0.25 {
		for yin := 0.0; yang+yin <= 10; yin += 0.25 {
			s := Classify(yang - yin)
			require.NotEqual(t, Undefined, s, "yang=%v yin=%v", yang, yin)
		}
	}
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	r := table.Lookup(1)
	assert.Equal(t, CriticalYang, r.State)
	assert.Equal(t, Multiplier{Attack: 1.75, Defense: 1.25}, r.Multiplier)

	r = table.Lookup(42)
	assert.Equal(t, Undefined, r.State)
	assert.Equal(t, Neutral, r.Multiplier)
}

func TestTable_MissingEntryIsNeutral(t *testing.T) {
	table := Table{Balance: {Attack: 2, Defense: 2}}
	assert.Equal(t, Neutral, table.For(ExtremeYin))
	assert.Equal(t, Multiplier{Attack: 2, Defense: 2}, table.For(Balance))
}

func TestScale(t *testing.T) {
	atk, def := Scale(4, 3, DefaultTable().For(CriticalYang))
	assert.Equal(t, 7, atk)
	assert.Equal(t, 3, def)

	atk, def = Scale(0, 0, Neutral)
	assert.Equal(t, 0, atk)
	assert.Equal(t, 0, def)
}

func TestStateKeys(t *testing.T) {
	for _, s := range append([]State{Undefined}, States...) {
		got, err := ParseState(s.Key())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseState("chaos")
	assert.Error(t, err)
}

func TestStateYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		S State `yaml:"s"`
	}{S: ExtremeYin})
	require.NoError(t, err)
	assert.Equal(t, "s: extreme_yin\n", string(out))

	var in struct {
		S State `yaml:"s"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("s: yang_prosperity\n"), &in))
	assert.Equal(t, YangProsperity, in.S)
}

func TestCriticalFor(t *testing.T) {
	assert.Equal(t, CriticalYang, ExtremeYang.CriticalFor())
	assert.Equal(t, CriticalYin, ExtremeYin.CriticalFor())
	assert.Equal(t, Undefined, Balance.CriticalFor())
	assert.True(t, ExtremeYin.IsExtreme())
	assert.True(t, CriticalYin.IsCritical())
	assert.False(t, UltimateQi.IsExtreme())
}
