package validators

import "testing"

func TestParseAuthTokenAcceptsBearerPrefix(t *testing.T) {
	claims, err := ParseAuthToken("Bearer user-1|manager|store-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "manager" || claims.StoreID != "store-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseAuthTokenCarriesSupplierScope(t *testing.T) {
	claims, err := ParseAuthToken("user-1|supplier|store-1|supplier-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SupplierID != "supplier-9" {
		t.Fatalf("unexpected supplier scope %q", claims.SupplierID)
	}

	claims, err = ParseAuthToken("user-1|manager|store-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SupplierID != "" {
		t.Fatalf("expected empty supplier scope, got %q", claims.SupplierID)
	}
}

func TestParseAuthTokenAllowsEmptyStoreScope(t *testing.T) {
	claims, err := ParseAuthToken("user-1|admin|")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.StoreID != "" {
		t.Fatalf("expected empty store scope, got %q", claims.StoreID)
	}
}

func TestParseAuthTokenRejectsMalformedTokens(t *testing.T) {
	for _, raw := range []string{"", "Bearer ", "user-1|manager", "|manager|store", "user-1||store"} {
		if _, err := ParseAuthToken(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSanitizeStringCapsRunes(t *testing.T) {
	if got := SanitizeString("  hello world  ", 5); got != "hello" {
		t.Fatalf("expected %q got %q", "hello", got)
	}
	if got := SanitizeString("héllo", 2); got != "hé" {
		t.Fatalf("expected rune-safe cap, got %q", got)
	}
	if got := SanitizeString(" keep ", 0); got != "keep" {
		t.Fatalf("expected trim only, got %q", got)
	}
}
