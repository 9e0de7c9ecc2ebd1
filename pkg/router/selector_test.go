package router

import "testing"

func TestSelectMethod(t *testing.T) {
	rs := testRuleSet(t)

	tests := []struct {
		name      string
		preferred string
		query     string
		expected  Method
	}{
		{
			name:      "explicit preference wins",
			preferred: "ml",
			query:     "I need help with my lease agreement",
			expected:  MethodML,
		},
		{
			name:      "long question routes to llm",
			preferred: "auto",
			query:     "Could you explain what the process is for renewing my apartment lease next month?",
			expected:  MethodLLM,
		},
		{
			name:      "pattern match routes to regex",
			preferred: "auto",
			query:     "lease renewal",
			expected:  MethodRegex,
		},
		{
			name:      "no pattern falls back to ml",
			preferred: "auto",
			query:     "zebra xylophone quartz",
			expected:  MethodML,
		},
		{
			name:      "empty preference is auto",
			preferred: "",
			query:     "zebra xylophone quartz",
			expected:  MethodML,
		},
		{
			name:      "unknown preference returned verbatim",
			preferred: "quantum",
			query:     "anything",
			expected:  Method("quantum"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectMethod(tt.preferred, tt.query, rs)
			if got != tt.expected {
				t.Errorf("selectMethod(%q, %q) = %s, want %s", tt.preferred, tt.query, got, tt.expected)
			}
		})
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"What are the office hours?", IntentInformation},
		{"How do I submit a maintenance request", IntentInstruction},
		{"I need help with billing", IntentAssistance},
		{"list my invoices", IntentData},
		{"Good morning", IntentGeneral},
		{"", IntentGeneral},
	}

	for _, tt := range tests {
		got := classifyIntent(tt.query)
		if got != tt.expected {
			t.Errorf("classifyIntent(%q) = %s, want %s", tt.query, got, tt.expected)
		}
	}
}
