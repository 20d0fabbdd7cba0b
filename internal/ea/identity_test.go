package ea

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	json "github.com/goccy/go-json"
)

func TestMatchIDDirectField(t *testing.T) {
	m := &Match{ID: "123456", Timestamp: 99}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "123456", id)
}

func TestMatchIDEmbeddedObject(t *testing.T) {
	m := &Match{MatchJSON: json.RawMessage(`{"matchId":"777","other":1}`)}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "777", id)
}

func TestMatchIDEmbeddedStringDocument(t *testing.T) {
	// matchJson arrives as a JSON document serialized into a string.
	m := &Match{MatchJSON: json.RawMessage(`"{\"matchId\":\"777\",\"other\":1}"`)}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "777", id)
}

func TestMatchIDEmbeddedTruncatedDocument(t *testing.T) {
	// Truncated embedded document: not valid JSON, but the id field is
	// still present and recoverable by scanning.
	m := &Match{MatchJSON: json.RawMessage(`"{\"matchId\":\"777\",\"clubs\":{\"12"`)}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "777", id)
}

func TestMatchIDComposite(t *testing.T) {
	m := &Match{
		Timestamp: 1700000000,
		Clubs: map[string]MatchClub{
			"900": {Score: 1},
			"12":  {Score: 4},
		},
	}

	id, err := MatchID(m)

	require.NoError(t, err)
	// Club ids sorted lexically: "12" before "900".
	assert.Equal(t, "1700000000:4-1", id)
}

func TestMatchIDCompositeStable(t *testing.T) {
	m := &Match{
		Timestamp: 1700000000,
		Clubs: map[string]MatchClub{
			"5": {Score: 2},
			"3": {Score: 0},
		},
	}

	first, err := MatchID(m)
	require.NoError(t, err)
	for range 10 {
		again, err := MatchID(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMatchIDCompositeMissingClubs(t *testing.T) {
	m := &Match{Timestamp: 1700000000}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "1700000000:?-?", id)
}

func TestMatchIDNoIdentity(t *testing.T) {
	m := &Match{MatchJSON: json.RawMessage(`{"somethingElse":true}`)}

	_, err := MatchID(m)

	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestMatchIDPrefersDirectOverEmbedded(t *testing.T) {
	m := &Match{
		ID:        "1",
		MatchJSON: json.RawMessage(`{"matchId":"2"}`),
		Timestamp: 3,
	}

	id, err := MatchID(m)

	require.NoError(t, err)
	assert.Equal(t, "1", id)
}
