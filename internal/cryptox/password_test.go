package cryptox

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the suite fast; the encoding is identical.
func newTestHasher() *Argon2Hasher {
	return mustHasher(Params{Time: 1, Memory: 64, Threads: 1})
}

func mustHasher(p Params) *Argon2Hasher {
	h, err := NewArgon2Hasher(p)
	if err != nil {
		panic(err)
	}
	return h
}

func TestHash_VerifyRoundTrip(t *testing.T) {
	h := newTestHasher()

	for _, pw := range []string{"whoa123", "", "pässwörd", strings.Repeat("x", 200)} {
		enc, err := h.Hash(pw)
		require.NoError(t, err)
		assert.True(t, h.Verify(pw, enc), "password %q must verify", pw)
		assert.False(t, h.Verify(pw+"!", enc), "different password must not verify")
	}
}

func TestHash_EncodingIsSelfDescribing(t *testing.T) {
	h := mustHasher(Params{Time: 2, Memory: 128, Threads: 2})

	enc, err := h.Hash("secret")
	require.NoError(t, err)

	parts := strings.Split(enc, "$")
	require.Len(t, parts, 6)
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "v=19", parts[2])
	assert.Equal(t, "m=128,t=2,p=2", parts[3])
	assert.NotContains(t, enc, "secret")

	// a hasher with other parameters still verifies it
	assert.True(t, newTestHasher().Verify("secret", enc))
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	h := newTestHasher()

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestVerify_MalformedHashReturnsFalse(t *testing.T) {
	h := newTestHasher()

	cases := map[string]string{
		"empty":             "",
		"garbage":           "not-a-hash",
		"wrong algorithm":   "$argon2i$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"bad version":       "$argon2id$v=16$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"bad params":        "$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"zero threads":      "$argon2id$v=19$m=64,t=1,p=0$c2FsdHNhbHRzYWx0$aGFzaA",
		"huge memory":       "$argon2id$v=19$m=99999999,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"bad salt":          "$argon2id$v=19$m=64,t=1,p=1$!!!$aGFzaA",
		"empty hash":        "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$",
		"missing segment":   "$argon2id$v=19$m=64,t=1,p=1$c2FsdHNhbHRzYWx0",
		"version suffix":    "$argon2id$v=19junk$m=64,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"params suffix":     "$argon2id$v=19$m=64,t=1,p=1junk$c2FsdHNhbHRzYWx0$aGFzaA",
		"padded number":     "$argon2id$v=19$m=064,t=1,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"too many passes":   "$argon2id$v=19$m=64,t=17,p=1$c2FsdHNhbHRzYWx0$aGFzaA",
		"bcrypt style hash": "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}

	for name, enc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("whatever", enc))
			})
		})
	}
}

func TestHash_InvalidParamsFail(t *testing.T) {
	h := &Argon2Hasher{params: Params{Time: 0, Memory: 64, Threads: 1}}

	_, err := h.Hash("pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashing)
}

func TestNewArgon2Hasher_Defaults(t *testing.T) {
	h, err := NewArgon2Hasher(Params{})
	require.NoError(t, err)
	assert.Equal(t, DefaultParams, h.params)
}

func TestNewArgon2Hasher_RejectsUnverifiableParams(t *testing.T) {
	cases := map[string]Params{
		"time above bound":    {Time: maxTime + 1, Memory: 8192, Threads: 1},
		"memory above bound":  {Time: 1, Memory: maxMemory + 1, Threads: 1},
		"threads above bound": {Time: 1, Memory: 8192, Threads: maxThreads + 1},
		"memory below lanes":  {Time: 1, Memory: 16, Threads: 4},
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			h, err := NewArgon2Hasher(p)
			assert.Nil(t, h)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

// Every hasher that can be built must verify its own output, including at
// the edges of the accepted range.
func TestNewArgon2Hasher_BoundaryParamsRoundTrip(t *testing.T) {
	for _, p := range []Params{
		{Time: maxTime, Memory: 64, Threads: 1},
		{Time: 1, Memory: 8 * maxThreads, Threads: maxThreads},
	} {
		h, err := NewArgon2Hasher(p)
		require.NoError(t, err)

		enc, err := h.Hash("whoa123")
		require.NoError(t, err)
		assert.True(t, h.Verify("whoa123", enc), "params %+v", p)
	}
}

func TestHasher_ConcurrentUse(t *testing.T) {
	h := newTestHasher()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enc, err := h.Hash("concurrent")
			if assert.NoError(t, err) {
				assert.True(t, h.Verify("concurrent", enc))
			}
		}()
	}
	wg.Wait()
}
