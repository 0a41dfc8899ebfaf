package shell

import (
	"fmt"
	"sync"

	"github.com/kartikbazzad/bunmem"
	"github.com/kartikbazzad/bunmem/cmd/bunmemsh/commands"
	"github.com/kartikbazzad/bunmem/cmd/bunmemsh/parser"
)

// Shell holds the interactive session state: the embedded store and the
// currently selected collection.
type Shell struct {
	store   *bunmem.Store
	current string
	mu      sync.Mutex
}

func NewShell(store *bunmem.Store) *Shell {
	return &Shell{store: store}
}

func (s *Shell) Store() *bunmem.Store {
	return s.store
}

func (s *Shell) Use(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = name
}

func (s *Shell) CollectionName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Shell) Collection() *bunmem.Collection {
	s.mu.Lock()
	name := s.current
	s.mu.Unlock()
	if name == "" {
		return nil
	}
	return s.store.Collection(name)
}

func (s *Shell) Execute(cmd *parser.Command) commands.Result {
	switch cmd.Name {
	case ".help":
		return commands.Help()
	case ".exit":
		return commands.Exit()
	case ".use":
		return commands.Use(s, cmd)
	case ".collections":
		return commands.Collections(s)
	case ".stats":
		return commands.Stats(s)
	case ".reset":
		return commands.Reset(s)
	case ".insert":
		return commands.Insert(s, cmd)
	case ".findone":
		return commands.FindOne(s, cmd)
	case ".find":
		return commands.Find(s, cmd)
	case ".update":
		return commands.Update(s, cmd, false)
	case ".updatemany":
		return commands.Update(s, cmd, true)
	case ".delete":
		return commands.Delete(s, cmd, false)
	case ".deletemany":
		return commands.Delete(s, cmd, true)
	case ".count":
		return commands.Count(s, cmd)
	case ".index":
		return commands.Index(s, cmd)
	case ".agg":
		return commands.Aggregate(s, cmd)
	default:
		return commands.ErrorResult{Err: fmt.Sprintf("unknown command: %s", cmd.Name)}
	}
}

// Commands returns every command name, for line completion.
func Commands() []string {
	return []string{
		".help", ".exit", ".use", ".collections", ".stats", ".reset",
		".insert", ".findone", ".find", ".update", ".updatemany",
		".delete", ".deletemany", ".count", ".index", ".agg",
	}
}
