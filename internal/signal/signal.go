// Package signal implements C12: projection of fetched records into a
// family of keyed, wide-column signal rows, modeled on a CQL store.
// Grounded in the pack's own Cassandra-backed crawlers — anishpateluk-walker
// (cassandra/dispatcher_test.go, gocql.Query / gocql.UUID usage) and
// dankinder-walker (cassandra/schema.go's table-per-concern layout,
// fetcher.go) — generalized from walker's link/segment/domain_info tables
// into the signal taxonomy this spec requires.
package signal

// Signal is implemented by every row type. DDL returns the CREATE TABLE
// statement for the row's table; it is idempotent to issue repeatedly
// (IF NOT EXISTS). UpsertCQL returns the prepared INSERT statement whose
// placeholders Bind supplies values for, in order.
type Signal interface {
	DDL() string
	UpsertCQL() string
	Bind() []interface{}
}

// AllDDL returns the CREATE TABLE statement for every signal table, in a
// stable order suitable for one-shot schema bootstrap.
func AllDDL() []string {
	return []string{
		(URLState{}).DDL(),
		(URLDepth{}).DDL(),
		(HostGate{}).DDL(),
		(HostStatsStripe{}).DDL(),
		(PrefixStats{}).DDL(),
		(InlinkAgg{}).DDL(),
		(DomainCoverage{}).DDL(),
		(DomainAuthorityPrior{}).DDL(),
	}
}
