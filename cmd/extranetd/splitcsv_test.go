package main

import "testing"

func TestSplitCSV(t *testing.T) {
	cases := []struct{ in string; want []string }{
		{"a,b,c", []string{"a","b","c"}},
		{" a , b , c ", []string{"a","b","c"}},
		{"a,,c", []string{"a","c"}},
		{"", nil},
		{" , ", nil},
		{"http://localhost:3000, https://ui.example.com", []string{"http://localhost:3000","https://ui.example.com"}},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		for i := range got {
			if got[i] != c.want[i] { t.Fatalf("%q -> %v, want %v", c.in, got, c.want) }
		}
	}
}

func TestResolve_ServeFlags(t *testing.T) {
	cases := []struct {
		name        string
		args        []string
		wantCORS    bool
		wantOrigins int
		wantTimeout int
	}{
		{"defaults", nil, false, 0, 60},
		{"blank origins keep cors off", []string{"--cors-origins", " , "}, false, 0, 60},
		{"origins enable cors", []string{"--cors-origins", "http://a, http://b"}, true, 2, 60},
		{"refresh timeout", []string{"--refresh-timeout", "7"}, false, 0, 7},
		{"refresh timeout disabled", []string{"--refresh-timeout", "-1"}, false, 0, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := &options{}
			cmd := buildServeCmd(o)
			if err := cmd.ParseFlags(c.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			cfg, err := o.resolve(cmd)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if cfg.CORSEnabled != c.wantCORS || len(cfg.CORSOrigins) != c.wantOrigins {
				t.Fatalf("cors enabled=%v origins=%v", cfg.CORSEnabled, cfg.CORSOrigins)
			}
			if cfg.RefreshTimeoutS != c.wantTimeout {
				t.Fatalf("refresh timeout = %d, want %d", cfg.RefreshTimeoutS, c.wantTimeout)
			}
		})
	}
}
