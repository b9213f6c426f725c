package database

import (
	"errors"
	"strings"
	"testing"
)

func TestNewGormRejectsUnknownDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "mongo"})
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("err = %v, want ErrUnsupportedDriver", err)
	}
}

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "driver dsn untouched",
			in:   "root:secret@tcp(127.0.0.1:3306)/users?parseTime=true",
			want: "root:secret@tcp(127.0.0.1:3306)/users?parseTime=true",
		},
		{
			name: "jdbc url with overrides",
			in:   "jdbc:mysql://db.local:3306/users?useSSL=false&serverTimezone=UTC",
			user: "app",
			pass: "pw",
			want: "app:pw@tcp(db.local:3306)/users?charset=utf8mb4&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "url credentials and encoding",
			in:   "mysql://u:p@localhost:3306/crm?characterEncoding=utf8",
			want: "u:p@tcp(localhost:3306)/crm?charset=utf8&parseTime=true",
		},
		{
			name: "explicit charset wins",
			in:   "mysql://h:3306/d?useSSL=1&charset=latin1&characterEncoding=utf8&useUnicode=true",
			want: "tcp(h:3306)/d?charset=latin1&parseTime=true&tls=true",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeMySQLDSN(tt.in, tt.user, tt.pass); got != tt.want {
				t.Fatalf("normalizeMySQLDSN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMaskDSN(t *testing.T) {
	got := maskDSN("app:topsecret@tcp(db:3306)/users")
	if strings.Contains(got, "topsecret") || got != "app:****@tcp(db:3306)/users" {
		t.Fatalf("maskDSN = %q", got)
	}
	if got := maskDSN("tcp(db:3306)/users"); got != "tcp(db:3306)/users" {
		t.Fatalf("maskDSN without credentials = %q", got)
	}
}
