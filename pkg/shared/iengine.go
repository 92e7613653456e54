package shared

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"
)

// Severity classifies a diagnostic reported by a compiler engine.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	// SeverityInfo is reserved; the orchestrator never emits it.
	SeverityInfo
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// DiagnosticMessage is a single compiler-produced finding.
type DiagnosticMessage struct {
	File     string   // Logical unit or physical path the message refers to
	Line     int      // 1-based line, 0 when not applicable
	Column   int      // 1-based column, 0 when not applicable
	Message  string   // Human-readable text
	ProcName string   // Procedure or compilation unit the message belongs to
	Severity Severity // Error, Warning or Info
}

// IsError reports whether the diagnostic fails the compilation.
func (d DiagnosticMessage) IsError() bool {
	return d.Severity == SeverityError
}

// CompilerOptions holds the immutable configuration of one compilation job.
type CompilerOptions struct {
	InputFile         string // Path to the application descriptor (.ent, .bch, .pff)
	OutputDirectory   string // Advisory output location, engines may ignore it
	CheckSyntaxOnly   bool   // Only check syntax, don't generate binaries
	VerboseOutput     bool   // Emit extra progress information
	GenerateDebugInfo bool   // Include debug information in the compiled output
}

// NewCompilerOptions returns options for inputFile with the default flags set.
func NewCompilerOptions(inputFile string) CompilerOptions {
	return CompilerOptions{
		InputFile:         inputFile,
		GenerateDebugInfo: true,
	}
}

// CompilationResult is the outcome of a single compilation job.
type CompilationResult struct {
	Success           bool
	ErrorCount        int
	WarningCount      int
	Diagnostics       []DiagnosticMessage
	CompiledOutput    string  // Produced artifact, set only on success
	CompilationTimeMs float64 // Wall-clock duration of the compile call
}

// Add appends a diagnostic and keeps the counters in sync.
func (r *CompilationResult) Add(d DiagnosticMessage) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	}
}

// Recount recomputes the counters and the success flag from the diagnostics.
func (r *CompilationResult) Recount() {
	r.ErrorCount, r.WarningCount = 0, 0
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case SeverityError:
			r.ErrorCount++
		case SeverityWarning:
			r.WarningCount++
		}
	}
	r.Success = r.ErrorCount == 0
	if !r.Success {
		r.CompiledOutput = ""
	}
}

// NewFailedResult returns a failed result carrying a single error diagnostic.
func NewFailedResult(file, message string) CompilationResult {
	var result CompilationResult
	result.Add(DiagnosticMessage{
		File:     file,
		Message:  message,
		Severity: SeverityError,
	})
	return result
}

// Engine is the capability interface a compiler engine must satisfy.
// Initialize must succeed before Compile is called, and Shutdown releases
// whatever Initialize acquired.
type Engine interface {
	Initialize() (bool, error)
	Compile(opts CompilerOptions) (CompilationResult, error)
	Shutdown() error
}

// EngineEmpty is the placeholder argument for RPC calls that carry no data.
type EngineEmpty struct {
	Dummy bool
}

type EngineRPCClient struct{ client *rpc.Client }

func (g *EngineRPCClient) Initialize() (bool, error) {
	var resp bool
	err := g.client.Call("Plugin.Initialize", EngineEmpty{}, &resp)
	if err != nil {
		return false, err
	}
	return resp, nil
}

func (g *EngineRPCClient) Compile(opts CompilerOptions) (CompilationResult, error) {
	var resp CompilationResult

	err := g.client.Call("Plugin.Compile", opts, &resp)
	if err != nil {
		return resp, err
	}

	return resp, nil
}

func (g *EngineRPCClient) Shutdown() error {
	var resp EngineEmpty
	return g.client.Call("Plugin.Shutdown", EngineEmpty{}, &resp)
}

type EngineRPCServer struct {
	Impl Engine
}

func (s *EngineRPCServer) Initialize(_ EngineEmpty, resp *bool) error {
	var err error
	*resp, err = s.Impl.Initialize()
	return err
}

func (s *EngineRPCServer) Compile(opts CompilerOptions, resp *CompilationResult) error {
	var err error
	*resp, err = s.Impl.Compile(opts)
	return err
}

func (s *EngineRPCServer) Shutdown(_ EngineEmpty, resp *EngineEmpty) error {
	return s.Impl.Shutdown()
}

// EnginePlugin exposes an Engine implementation over go-plugin's net/rpc transport.
type EnginePlugin struct {
	Impl Engine
}

func (p *EnginePlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	return &EngineRPCServer{Impl: p.Impl}, nil
}

func (EnginePlugin) Client(b *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &EngineRPCClient{client: c}, nil
}
