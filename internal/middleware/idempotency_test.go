package middleware

import "testing"

func TestReplyKeyScopedToEndpoint(t *testing.T) {
	t.Parallel()

	register := replyKey("POST", "/v1/payments", "req-123")
	void := replyKey("POST", "/v1/payments/:id/void", "req-123")

	if register == void {
		t.Errorf("expected the same key on different endpoints to cache separately, both were %q", register)
	}

	if again := replyKey("POST", "/v1/payments", "req-123"); again != register {
		t.Errorf("expected a retry of the same request to hit the same entry, got %q and %q", register, again)
	}
}
