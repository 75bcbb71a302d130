package postgres

import "fmt"

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users            string
	Documents        string
	DocumentVersions string
	Permissions      string
	Requests         string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:            fmt.Sprintf("%susers", prefix),
		Documents:        fmt.Sprintf("%sdocuments", prefix),
		DocumentVersions: fmt.Sprintf("%sdocument_versions", prefix),
		Permissions:      fmt.Sprintf("%spermissions", prefix),
		Requests:         fmt.Sprintf("%srequests", prefix),
	}
}
