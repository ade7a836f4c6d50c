package checklist

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/cadence/internal/catalog"
	"github.com/alexanderramin/cadence/internal/domain"
)

//go:embed seed/checklists.csv
var embeddedSeed []byte

// EmbeddedSource parses the template compiled into the binary.
func EmbeddedSource() (Template, error) {
	tpl, err := ParseCSV(bytes.NewReader(embeddedSeed))
	if err != nil {
		return Template{}, fmt.Errorf("embedded checklist seed: %w", err)
	}
	tpl.Version = catalog.Version
	return tpl, nil
}

// FileSource returns a Source reading the CSV at path.
func FileSource(path string) Source {
	return func() (Template, error) {
		f, err := os.Open(path)
		if err != nil {
			return Template{}, fmt.Errorf("opening checklist seed: %w", err)
		}
		defer f.Close()
		tpl, err := ParseCSV(f)
		if err != nil {
			return Template{}, fmt.Errorf("checklist seed %s: %w", path, err)
		}
		tpl.Version = "file:" + path
		return tpl, nil
	}
}

// ParseCSV reads rows of activity,sequence,item. The header row is required
// and its columns may come in any order. Rows sharing an (activity, sequence)
// pair form one checklist; checklists are queued by ascending sequence and
// items keep their row order.
func ParseCSV(r io.Reader) (Template, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Template{}, fmt.Errorf("empty checklist seed")
	}
	if err != nil {
		return Template{}, fmt.Errorf("reading header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"activity", "sequence", "item"} {
		if _, ok := col[want]; !ok {
			return Template{}, fmt.Errorf("missing %q column", want)
		}
	}

	grouped := map[string]map[int][]domain.ChecklistItem{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Template{}, err
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		activity, item := field("activity"), field("item")
		if activity == "" && item == "" {
			continue
		}
		if activity == "" {
			return Template{}, fmt.Errorf("line %d: activity is required", line)
		}
		seq, err := strconv.Atoi(field("sequence"))
		if err != nil {
			return Template{}, fmt.Errorf("line %d: sequence must be an integer, got %q", line, field("sequence"))
		}
		if item == "" {
			continue
		}
		if grouped[activity] == nil {
			grouped[activity] = map[int][]domain.ChecklistItem{}
		}
		grouped[activity][seq] = append(grouped[activity][seq], domain.ChecklistItem{Text: item})
	}

	tpl := Template{Queues: make(map[string][][]domain.ChecklistItem, len(grouped))}
	for activity, bySeq := range grouped {
		seqs := make([]int, 0, len(bySeq))
		for s := range bySeq {
			seqs = append(seqs, s)
		}
		sort.Ints(seqs)
		queue := make([][]domain.ChecklistItem, 0, len(seqs))
		for _, s := range seqs {
			queue = append(queue, bySeq[s])
		}
		tpl.Queues[activity] = queue
	}
	return tpl, nil
}
