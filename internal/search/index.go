// Package search is an embedded full-text index on BadgerDB. It stores one
// JSON source document per id together with inverted postings for its
// searchable fields.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout. Ids are zero padded so byte order equals numeric order.
const (
	docPrefix  = "doc/"
	termPrefix = "term/"
	fwdPrefix  = "fwd/"
	idWidth    = 20
)

// Document is one indexed record.
type Document struct {
	ID     int64
	Fields map[string]string // searchable and sortable values by field name
	Source []byte            // JSON returned on hits
}

type storedDoc struct {
	Fields map[string]string `json:"fields"`
	Source json.RawMessage   `json:"source"`
}

// Hits is one page of search results.
type Hits struct {
	Total   int64
	Sources [][]byte
}

// SortField orders hits by a document field. The field "id" sorts
// numerically.
type SortField struct {
	Field string
	Desc  bool
}

// Index is a set of named document collections sharing one Badger database.
type Index struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens an index at path. An empty path keeps everything in memory.
func Open(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger.With("component", "badger")})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Index{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func idKey(id int64) string {
	return fmt.Sprintf("%0*d", idWidth, id)
}

func docKey(index string, id int64) []byte {
	return []byte(docPrefix + index + "/" + idKey(id))
}

func fwdKey(index string, id int64) []byte {
	return []byte(fwdPrefix + index + "/" + idKey(id))
}

func termKey(index, field, token string, id int64) string {
	return termPrefix + index + "/" + field + "/" + token + "/" + idKey(id)
}

func parseTrailingID(key []byte) (int64, error) {
	s := string(key)
	return strconv.ParseInt(s[strings.LastIndexByte(s, '/')+1:], 10, 64)
}

// Put inserts or replaces a document and its postings.
func (ix *Index) Put(ctx context.Context, index string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(storedDoc{Fields: doc.Fields, Source: doc.Source})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	terms := postings(index, doc)
	fwd, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshal postings: %w", err)
	}

	return ix.db.Update(func(txn *badger.Txn) error {
		if err := removePostings(txn, index, doc.ID); err != nil {
			return err
		}
		if err := txn.Set(docKey(index, doc.ID), data); err != nil {
			return fmt.Errorf("set document: %w", err)
		}
		for _, k := range terms {
			if err := txn.Set([]byte(k), nil); err != nil {
				return fmt.Errorf("set posting: %w", err)
			}
		}
		return txn.Set(fwdKey(index, doc.ID), fwd)
	})
}

func postings(index string, doc Document) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	fields := make([]string, 0, len(doc.Fields))
	for f := range doc.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, tok := range Tokenize(doc.Fields[f]) {
			add(termKey(index, f, tok, doc.ID))
			add(termKey(index, allField, tok, doc.ID))
		}
	}
	return out
}

func removePostings(txn *badger.Txn, index string, id int64) error {
	item, err := txn.Get(fwdKey(index, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get postings: %w", err)
	}
	var terms []string
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &terms)
	}); err != nil {
		return fmt.Errorf("decode postings: %w", err)
	}
	for _, k := range terms {
		if err := txn.Delete([]byte(k)); err != nil {
			return fmt.Errorf("delete posting: %w", err)
		}
	}
	return txn.Delete(fwdKey(index, id))
}

// Delete removes a document. A missing id is not an error.
func (ix *Index) Delete(ctx context.Context, index string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ix.db.Update(func(txn *badger.Txn) error {
		if err := removePostings(txn, index, id); err != nil {
			return err
		}
		if err := txn.Delete(docKey(index, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
}

// Get returns the stored source of one document.
func (ix *Index) Get(ctx context.Context, index string, id int64) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var src []byte
	err := ix.db.View(func(txn *badger.Txn) error {
		d, err := getDoc(txn, index, id)
		if err != nil {
			return err
		}
		src = d.Source
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return src, true, nil
}

func getDoc(txn *badger.Txn, index string, id int64) (storedDoc, error) {
	var d storedDoc
	item, err := txn.Get(docKey(index, id))
	if err != nil {
		return d, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &d)
	})
	return d, err
}

// Count returns the number of documents in index.
func (ix *Index) Count(ctx context.Context, index string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	err := ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(docPrefix + index + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// DeleteAll drops every document and posting of index.
func (ix *Index) DeleteAll(ctx context.Context, index string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return ix.db.DropPrefix(
		[]byte(docPrefix+index+"/"),
		[]byte(termPrefix+index+"/"),
		[]byte(fwdPrefix+index+"/"),
	)
}

// Search runs q against index and returns the page [offset, offset+limit).
// Without sort fields, hits are ordered by score descending then id
// ascending.
func (ix *Index) Search(ctx context.Context, index string, q Query, sortBy []SortField, offset, limit int) (Hits, error) {
	if err := ctx.Err(); err != nil {
		return Hits{}, err
	}
	var hits Hits
	err := ix.db.View(func(txn *badger.Txn) error {
		scores, err := match(txn, index, q)
		if err != nil {
			return err
		}

		type hit struct {
			id     int64
			score  int
			fields map[string]string
		}
		ranked := make([]hit, 0, len(scores))
		for id, s := range scores {
			ranked = append(ranked, hit{id: id, score: s})
		}
		if len(sortBy) > 0 {
			for i := range ranked {
				d, err := getDoc(txn, index, ranked[i].id)
				if err != nil {
					return err
				}
				ranked[i].fields = d.Fields
			}
		}
		sort.Slice(ranked, func(i, j int) bool {
			a, b := ranked[i], ranked[j]
			for _, s := range sortBy {
				c := compareField(s.Field, a.id, b.id, a.fields, b.fields)
				if c != 0 {
					return (c < 0) != s.Desc
				}
			}
			if len(sortBy) == 0 && a.score != b.score {
				return a.score > b.score
			}
			return a.id < b.id
		})

		hits.Total = int64(len(ranked))
		if offset < 0 || offset >= len(ranked) || limit <= 0 {
			return nil
		}
		end := len(ranked)
		if limit < end-offset {
			end = offset + limit
		}
		for _, h := range ranked[offset:end] {
			d, err := getDoc(txn, index, h.id)
			if err != nil {
				return err
			}
			hits.Sources = append(hits.Sources, d.Source)
		}
		return nil
	})
	return hits, err
}

func compareField(field string, aID, bID int64, a, b map[string]string) int {
	if field == "id" {
		switch {
		case aID < bID:
			return -1
		case aID > bID:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a[field]), strings.ToLower(b[field]))
}

func match(txn *badger.Txn, index string, q Query) (map[int64]int, error) {
	scores := make(map[int64]int)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	if q.MatchAll {
		prefix := []byte(docPrefix + index + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := parseTrailingID(it.Item().Key())
			if err != nil {
				return nil, err
			}
			scores[id] = 0
		}
	}

	for _, c := range q.Clauses {
		prefix := termPrefix + index + "/" + c.Field + "/" + c.Token
		if !c.Prefix {
			prefix += "/"
		}
		matched := make(map[int64]struct{})
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			id, err := parseTrailingID(it.Item().Key())
			if err != nil {
				return nil, err
			}
			matched[id] = struct{}{}
		}
		for id := range matched {
			scores[id]++
		}
	}
	return scores, nil
}

// badgerLogger routes badger's own logging into slog. Info and debug output
// is dropped.
type badgerLogger struct {
	l *slog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}
