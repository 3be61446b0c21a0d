package guest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "device-abc")
	b := Fingerprint("203.0.113.7:51234", "device-abc")
	assert.Equal(t, a, b)
}

func TestFingerprintIgnoresPort(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "device-abc")
	b := Fingerprint("203.0.113.7:60001", "device-abc")
	assert.Equal(t, a, b, "ephemeral ports must not mint new identities")
}

func TestFingerprintDistinguishesClients(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "device-abc")
	b := Fingerprint("203.0.113.7:51234", "device-xyz")
	assert.NotEqual(t, a, b)
}

func TestFingerprintDistinguishesAddresses(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "device-abc")
	b := Fingerprint("203.0.113.8:51234", "device-abc")
	assert.NotEqual(t, a, b)
}

func TestFingerprintAbsentClientID(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "")
	b := Fingerprint("203.0.113.7:60002", "")
	require.NotEmpty(t, a)
	assert.Equal(t, a, b, "absent client id falls back to a fixed sentinel")
}

func TestFingerprintOpaque(t *testing.T) {
	a := Fingerprint("203.0.113.7:51234", "device-abc")
	assert.NotContains(t, a, "203.0.113.7")
	assert.NotContains(t, a, "device-abc")
}
