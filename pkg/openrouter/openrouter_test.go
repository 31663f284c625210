package openrouter

import "testing"

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "explicit", cfg: Config{BaseURL: "http://localhost:8080/v1/", Provider: "gemini"}, want: "http://localhost:8080/v1"},
		{name: "provider", cfg: Config{Provider: "OpenAI"}, want: "https://api.openai.com/v1"},
		{name: "unknown", cfg: Config{Provider: "nope"}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.cfg.ResolveBaseURL()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveBaseURL() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ResolveBaseURL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if NewClient(Config{Provider: "openai"}) != nil {
		t.Fatal("expected nil client without api key")
	}
	if NewClient(Config{Provider: "openai", APIKey: "k"}) == nil {
		t.Fatal("expected client with api key")
	}
}
