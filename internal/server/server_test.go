package server

import "testing"

func TestValidateAIEnv(t *testing.T) {
	tests := []struct {
		name    string
		adapter string
		chatKey string
		wantErr bool
	}{
		{name: "openai with key", adapter: "openai", chatKey: "sk-test", wantErr: false},
		{name: "openai without key", adapter: "openai", chatKey: "", wantErr: true},
		{name: "default adapter without key", adapter: "", chatKey: "", wantErr: true},
		{name: "default adapter with key", adapter: "", chatKey: "sk-test", wantErr: false},
		{name: "ollama without key", adapter: "ollama", chatKey: "", wantErr: false},
		{name: "ollama with key", adapter: "ollama", chatKey: "token", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAIEnv(tt.adapter, tt.chatKey)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAIEnv(%q, %q) error = %v, wantErr %v", tt.adapter, tt.chatKey, err, tt.wantErr)
			}
		})
	}
}
