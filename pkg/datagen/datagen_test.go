package datagen

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emailRe = regexp.MustCompile(`^[a-z]+\.[a-z]+\d{1,3}@[a-z.]+$`)

func TestRandomUser_FieldShapes(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	withFriends := 0

	for i := 0; i < 500; i++ {
		u := RandomUser(r)

		assert.True(t, ValidDNI(u.DNI), "dni %q", u.DNI)
		require.NotNil(t, u.Phone)
		assert.Regexp(t, `^9\d{8}$`, *u.Phone)
		assert.Regexp(t, emailRe, u.Email)
		assert.Regexp(t, `^pass\d{4}$`, u.Secret)
		assert.NotEmpty(t, u.Name)
		require.NotNil(t, u.Friends)
		assert.LessOrEqual(t, len(u.Friends), 3)

		seen := map[string]bool{}
		for _, f := range u.Friends {
			assert.NotEqual(t, u.DNI, f, "nunca se es amigo de sí mismo")
			assert.False(t, seen[f], "amigos repetidos")
			assert.Contains(t, friendPool, f)
			seen[f] = true
		}
		if len(u.Friends) > 0 {
			withFriends++
		}
	}

	// ~50%; margen amplio para no depender de la semilla.
	assert.Greater(t, withFriends, 150)
	assert.Less(t, withFriends, 350)
}

func TestRandomUser_Deterministic(t *testing.T) {
	a := RandomUser(rand.New(rand.NewSource(42)))
	b := RandomUser(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
}

func TestValidDNI(t *testing.T) {
	assert.True(t, ValidDNI("20453629"))
	assert.False(t, ValidDNI("2045362"))
	assert.False(t, ValidDNI("204536299"))
	assert.False(t, ValidDNI("2045362a"))
	assert.False(t, ValidDNI(""))
}

func TestCleanFriendDNIs(t *testing.T) {
	got := CleanFriendDNIs([]string{" 11111111", "abc", "22222222 ", "", "123"})
	assert.Equal(t, []string{"11111111", "22222222"}, got)
}
