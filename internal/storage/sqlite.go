package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Archive is a SQLite snapshot of the link index. It is only ever written
// by the service; nothing is loaded back at startup.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates the archive file and initializes its schema
func OpenArchive(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	archive := &Archive{db: db}

	if err := archive.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return archive, nil
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS domains (
		domain_id INTEGER PRIMARY KEY AUTOINCREMENT,
		host TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS links (
		link_id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		FOREIGN KEY (domain_id) REFERENCES domains(domain_id),
		UNIQUE(domain_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_domains_host ON domains(host);
	CREATE INDEX IF NOT EXISTS idx_links_domain ON links(domain_id);
	`

	_, err := a.db.Exec(schema)
	return err
}

// SaveRecord merges a domain record into the archive. Links already
// archived for the host are left untouched.
func (a *Archive) SaveRecord(record DomainRecord) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Upsert domain
	if _, err := tx.Exec(`
		INSERT INTO domains (host) VALUES (?)
		ON CONFLICT(host) DO NOTHING
	`, record.Domain); err != nil {
		return fmt.Errorf("failed to upsert domain: %w", err)
	}

	var domainID int
	if err := tx.QueryRow("SELECT domain_id FROM domains WHERE host = ?", record.Domain).Scan(&domainID); err != nil {
		return fmt.Errorf("failed to retrieve domain_id: %w", err)
	}

	// Insert links, skipping ones already archived
	stmt, err := tx.Prepare(`
		INSERT INTO links (domain_id, url) VALUES (?, ?)
		ON CONFLICT(domain_id, url) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare link insert: %w", err)
	}
	defer stmt.Close()

	for _, link := range record.URLs {
		if _, err := stmt.Exec(domainID, link); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit domain %s: %w", record.Domain, err)
	}
	return nil
}

// LoadDomain returns the archived record for a host, or nil if the host
// has never been archived
func (a *Archive) LoadDomain(host string) (*DomainRecord, error) {
	var domainID int
	err := a.db.QueryRow("SELECT domain_id FROM domains WHERE host = ?", host).Scan(&domainID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}

	// Load links
	rows, err := a.db.Query("SELECT url FROM links WHERE domain_id = ? ORDER BY url ASC", domainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load links: %w", err)
	}
	defer rows.Close()

	record := &DomainRecord{Domain: host, URLs: []string{}}
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		record.URLs = append(record.URLs, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	record.Count = len(record.URLs)
	return record, nil
}

// ListDomains returns every archived host in alphabetical order
func (a *Archive) ListDomains() ([]string, error) {
	rows, err := a.db.Query("SELECT host FROM domains ORDER BY host ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	hosts := []string{}
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		hosts = append(hosts, host)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domains: %w", err)
	}
	return hosts, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}
