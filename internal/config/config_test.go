package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"TABLE_NAME", "SOURCE_DB_PORT", "TARGET_DB_PORT", "STORAGE_BACKEND", "DB_DRIVER", "MIRROR_ATOMIC"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Inventory.TableName != "inventory_sample" {
		t.Fatalf("unexpected default table name: %q", cfg.Inventory.TableName)
	}
	if cfg.Database.Source.Port != "5432" || cfg.Database.Target.Port != "5432" {
		t.Fatalf("unexpected default ports: %q / %q", cfg.Database.Source.Port, cfg.Database.Target.Port)
	}
	if cfg.Storage.Backend != StorageBackendS3 {
		t.Fatalf("unexpected default backend: %q", cfg.Storage.Backend)
	}
	if cfg.Database.Driver != "postgres" {
		t.Fatalf("unexpected default driver: %q", cfg.Database.Driver)
	}
	if cfg.Inventory.MirrorAtomic {
		t.Fatalf("mirror must not be atomic by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SOURCE_BUCKET", "primary")
	t.Setenv("DEST_BUCKET", "backup")
	t.Setenv("TABLE_NAME", "stock")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SOURCE_DB_HOST", "db-a")
	t.Setenv("TARGET_DB_HOST", "db-b")
	t.Setenv("TARGET_DB_PORT", "6543")
	t.Setenv("SEED_ROWS", `[{"item_id":9}]`)
	t.Setenv("MIRROR_ATOMIC", "true")
	t.Setenv("STORAGE_BACKEND", " MinIO ")

	cfg := Load()
	if cfg.Storage.SourceBucket != "primary" || cfg.Storage.DestBucket != "backup" {
		t.Fatalf("unexpected buckets: %+v", cfg.Storage)
	}
	if cfg.Storage.Backend != StorageBackendMinio {
		t.Fatalf("backend should be normalised, got %q", cfg.Storage.Backend)
	}
	if cfg.Inventory.TableName != "stock" || cfg.Inventory.SeedRows != `[{"item_id":9}]` {
		t.Fatalf("unexpected inventory config: %+v", cfg.Inventory)
	}
	if !cfg.Inventory.MirrorAtomic {
		t.Fatalf("expected MIRROR_ATOMIC to be honoured")
	}
	if !cfg.Database.HasCredentials() {
		t.Fatalf("expected credentials")
	}
	if cfg.Database.Source.Host != "db-a" || cfg.Database.Target.Host != "db-b" || cfg.Database.Target.Port != "6543" {
		t.Fatalf("unexpected endpoints: %+v", cfg.Database)
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		user, password string
		want           bool
	}{
		{"app", "secret", true},
		{"app", "", false},
		{"", "secret", false},
		{"", "", false},
	}
	for _, tt := range tests {
		cfg := DatabaseConfig{User: tt.user, Password: tt.password}
		if got := cfg.HasCredentials(); got != tt.want {
			t.Fatalf("HasCredentials(%q, %q) = %v, want %v", tt.user, tt.password, got, tt.want)
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{User: "app", Password: "p@ss word", SSLMode: "require"}
	got := cfg.DSN(Endpoint{Host: "db", DBName: "inventory"})
	want := `host=db port=5432 user=app password='p@ss word' dbname=inventory sslmode=require`
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}

	quoted := quoteDSNValue(`it's`)
	if quoted != `'it\'s'` {
		t.Fatalf("unexpected quoting: %q", quoted)
	}
	if quoteDSNValue("") != "''" {
		t.Fatalf("empty values must be quoted")
	}
}
