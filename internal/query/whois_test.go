package query

import "testing"

func TestWhoisResponse_Fields(t *testing.T) {
	resp := WhoisResponse{
		Server: "whois.example",
		Data: "Domain Name: EXAMPLE.COM\n" +
			"   Registrar: Example Registrar\n" +
			"\n" +
			"not a field line\n" +
			"Empty Value:    \n",
	}

	fields := resp.Fields()
	want := map[string]string{
		"Domain Name": "EXAMPLE.COM",
		"Registrar":   "Example Registrar",
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %#v", len(fields), len(want), fields)
	}
	for _, f := range fields {
		if want[f.Key] != f.Value {
			t.Errorf("field %q = %q, want %q", f.Key, f.Value, want[f.Key])
		}
	}
}
