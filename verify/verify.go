// Package verify checks programs without running them and produces
// diagnostic reports that combine the static checks with a bounded run.
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct  IssueType = "STRUCT"  // Bracket structure error, the program cannot load
	IssueRuntime IssueType = "RUNTIME" // The program is certain to fail at run time
	IssueStyle   IssueType = "STYLE"   // Legal but most likely unintended
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, RUNTIME or STYLE
	Offset  int                    // Source offset (-1 if not applicable)
	Index   int                    // Instruction index (-1 if not applicable)
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

func splitIssues(issues []Issue) (structural, runtime, style []Issue) {
	for _, issue := range issues {
		switch issue.Type {
		case IssueStruct:
			structural = append(structural, issue)
		case IssueRuntime:
			runtime = append(runtime, issue)
		default:
			style = append(style, issue)
		}
	}

	return structural, runtime, style
}
