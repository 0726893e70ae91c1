package router

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "start",
			text: "/start",
			want: Command{Kind: KindStart, Text: "/start"},
		},
		{
			name: "help",
			text: "/help",
			want: Command{Kind: KindHelp, Text: "/help"},
		},
		{
			name: "uppercase",
			text: "/CLEAR",
			want: Command{Kind: KindClear, Text: "/CLEAR"},
		},
		{
			name: "mixed case with args",
			text: "/Search giá vàng",
			want: Command{Kind: KindSearch, Args: "giá vàng", Text: "/Search giá vàng"},
		},
		{
			name: "create inline args",
			text: "/create Toán 10 15 trắc_nghiệm",
			want: Command{Kind: KindCreate, Args: "Toán 10 15 trắc_nghiệm", Text: "/create Toán 10 15 trắc_nghiệm"},
		},
		{
			name: "surrounding whitespace",
			text: "  /demo  ",
			want: Command{Kind: KindDemo, Text: "/demo"},
		},
		{
			name: "free text",
			text: "xin chào bạn",
			want: Command{Kind: KindFreeText, Text: "xin chào bạn"},
		},
		{
			name: "slash but unknown command",
			text: "/unknown foo",
			want: Command{Kind: KindFreeText, Text: "/unknown foo"},
		},
		{
			name: "prefix match without separator",
			text: "/statusreport",
			want: Command{Kind: KindStatus, Args: "report", Text: "/statusreport"},
		},
		{
			name: "empty",
			text: "",
			want: Command{Kind: KindFreeText, Text: ""},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Parse(tt.text)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
