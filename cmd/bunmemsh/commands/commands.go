package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kartikbazzad/bunmem"
	"github.com/kartikbazzad/bunmem/cmd/bunmemsh/parser"
)

type Result interface {
	Print(w io.Writer)
	IsExit() bool
}

type ErrorResult struct {
	Err string
}

func (e ErrorResult) Print(w io.Writer) {
	fmt.Fprintln(w, "ERROR")
	fmt.Fprintln(w, e.Err)
}

func (e ErrorResult) IsExit() bool {
	return false
}

type ExitResult struct{}

func (e ExitResult) Print(w io.Writer) {}

func (e ExitResult) IsExit() bool {
	return true
}

type OKResult struct {
	Message string
}

func (o OKResult) Print(w io.Writer) {
	fmt.Fprintln(w, "OK")
	if o.Message != "" {
		fmt.Fprintln(w, o.Message)
	}
}

func (o OKResult) IsExit() bool {
	return false
}

// DocsResult prints documents one JSON object per line, then a count line.
type DocsResult struct {
	Docs []bunmem.Document
}

func (d DocsResult) Print(w io.Writer) {
	for _, doc := range d.Docs {
		b, err := json.Marshal(doc)
		if err != nil {
			fmt.Fprintf(w, "<unprintable: %v>\n", err)
			continue
		}
		fmt.Fprintln(w, string(b))
	}
	fmt.Fprintf(w, "(%d document(s))\n", len(d.Docs))
}

func (d DocsResult) IsExit() bool {
	return false
}

type HelpResult struct{}

func (h HelpResult) Print(w io.Writer) {
	fmt.Fprintln(w, "bunmem Shell Commands:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Meta Commands:")
	fmt.Fprintln(w, "  .help            Show this help message")
	fmt.Fprintln(w, "  .exit            Exit the shell")
	fmt.Fprintln(w, "  .use <name>      Select current collection (created lazily)")
	fmt.Fprintln(w, "  .collections     List collections")
	fmt.Fprintln(w, "  .stats           Per-collection document counts")
	fmt.Fprintln(w, "  .reset           Drop every collection")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CRUD (all payloads are JSON):")
	fmt.Fprintln(w, "  .insert <doc | [docs]>          Insert one or many documents")
	fmt.Fprintln(w, "  .findone <filter>                First matching document")
	fmt.Fprintln(w, "  .find <filter> [sort=f:1] [skip=N] [limit=N]")
	fmt.Fprintln(w, "  .update [<filter>, <update>]     Update first match ($set, $inc)")
	fmt.Fprintln(w, "  .updatemany [<filter>, <update>] Update all matches ($set only)")
	fmt.Fprintln(w, "  .delete <filter>                 Delete first match")
	fmt.Fprintln(w, "  .deletemany <filter>             Delete all matches ({} clears)")
	fmt.Fprintln(w, "  .count [filter]                  Count matching documents")
	fmt.Fprintln(w, "  .index <keys>                    Register a (no-op) index")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Aggregation:")
	fmt.Fprintln(w, "  .agg <pipeline-array>            e.g. .agg [{\"$group\":{\"_id\":\"$status\",\"n\":{\"$sum\":1}}}]")
}

func (h HelpResult) IsExit() bool {
	return false
}

func Help() Result {
	return HelpResult{}
}

func Exit() Result {
	return ExitResult{}
}

func Use(s Session, cmd *parser.Command) Result {
	if cmd.Payload == "" {
		return ErrorResult{Err: "usage: .use <collection>"}
	}
	s.Use(cmd.Payload)
	return OKResult{Message: "collection=" + cmd.Payload}
}

func Collections(s Session) Result {
	names := s.Store().CollectionNames()
	if len(names) == 0 {
		return OKResult{Message: "(none)"}
	}
	msg := ""
	for i, name := range names {
		if i > 0 {
			msg += "\n"
		}
		msg += name
	}
	return OKResult{Message: msg}
}

func Stats(s Session) Result {
	names := s.Store().CollectionNames()
	msg := ""
	for i, name := range names {
		if i > 0 {
			msg += "\n"
		}
		msg += fmt.Sprintf("%s: %d", name, s.Store().Collection(name).CountDocuments(nil))
	}
	if msg == "" {
		msg = "(none)"
	}
	return OKResult{Message: msg}
}

func Reset(s Session) Result {
	s.Store().Reset()
	return OKResult{}
}

func Insert(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	objs, err := cmd.ObjectList()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}

	if len(objs) == 1 {
		res := col.InsertOne(bunmem.Document(objs[0]))
		return OKResult{Message: "inserted_id=" + res.InsertedID}
	}

	docs := make([]bunmem.Document, len(objs))
	for i, obj := range objs {
		docs[i] = bunmem.Document(obj)
	}
	n := col.InsertMany(docs)
	return OKResult{Message: fmt.Sprintf("inserted=%d", n)}
}

func FindOne(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	filter, err := cmd.Object()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	doc := col.FindOne(bunmem.Filter(filter))
	if doc == nil {
		return DocsResult{}
	}
	return DocsResult{Docs: []bunmem.Document{doc}}
}

func Find(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	filter, err := cmd.Object()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}

	cursor := col.Find(bunmem.Filter(filter))

	field, dir, hasSort, err := cmd.SortOption()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	if hasSort {
		cursor.Sort(bunmem.SortKey{Field: field, Direction: dir})
	}
	if skip, err := cmd.IntOption("skip", -1); err != nil {
		return ErrorResult{Err: err.Error()}
	} else if skip >= 0 {
		cursor.Skip(skip)
	}
	if limit, err := cmd.IntOption("limit", -1); err != nil {
		return ErrorResult{Err: err.Error()}
	} else if limit >= 0 {
		cursor.Limit(limit)
	}

	return DocsResult{Docs: cursor.ToArray()}
}

func Update(s Session, cmd *parser.Command, many bool) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	objs, err := cmd.ObjectList()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	if len(objs) != 2 {
		return ErrorResult{Err: "usage: .update [<filter>, <update>]"}
	}

	var modified int
	if many {
		modified = col.UpdateMany(bunmem.Filter(objs[0]), objs[1])
	} else {
		modified = col.UpdateOne(bunmem.Filter(objs[0]), objs[1])
	}
	return OKResult{Message: fmt.Sprintf("modified=%d", modified)}
}

func Delete(s Session, cmd *parser.Command, many bool) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	filter, err := cmd.Object()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}

	var deleted int
	if many {
		deleted = col.DeleteMany(bunmem.Filter(filter))
	} else {
		deleted = col.DeleteOne(bunmem.Filter(filter))
	}
	return OKResult{Message: fmt.Sprintf("deleted=%d", deleted)}
}

func Count(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	filter, err := cmd.Object()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}
	return OKResult{Message: fmt.Sprintf("count=%d", col.CountDocuments(bunmem.Filter(filter)))}
}

func Index(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	spec, err := cmd.Object()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}

	keys := make(map[string]int, len(spec))
	for field, dir := range spec {
		d, ok := dir.(float64)
		if !ok {
			return ErrorResult{Err: fmt.Sprintf("index direction for %q must be a number", field)}
		}
		keys[field] = int(d)
	}
	return OKResult{Message: "name=" + col.CreateIndex(keys)}
}

func Aggregate(s Session, cmd *parser.Command) Result {
	col := s.Collection()
	if col == nil {
		return ErrorResult{Err: "no collection selected, run .use <name>"}
	}
	stageMaps, err := cmd.ObjectList()
	if err != nil {
		return ErrorResult{Err: err.Error()}
	}

	stages := bunmem.ParsePipeline(stageMaps)
	return DocsResult{Docs: col.Aggregate(stages...).ToArray()}
}
