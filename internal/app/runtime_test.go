package app

import (
	"testing"

	_ "github.com/atrium-suite/atrium/testing"
)

func TestGuardEnablesTestMode(t *testing.T) {
	RefreshTestMode()
	if !InTestMode() {
		t.Fatal("expected test mode under the guard import")
	}
}
