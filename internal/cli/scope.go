package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scopedocs/internal/ingest"
	"scopedocs/internal/scope"
)

// scopeFlags are the scope fields shared by list, add and import.
type scopeFlags struct {
	values map[string]*string
}

var scopeFlagNames = []struct {
	flag, param, usage string
}{
	{"cycle", scope.ParamCycleID, "cycle id"},
	{"program", scope.ParamProgramID, "program id (syllabus, library)"},
	{"course", scope.ParamCourseID, "course id (syllabus)"},
	{"syllabus", scope.ParamSyllabusID, "syllabus id (syllabus)"},
	{"faculty", scope.ParamFacultyKey, "faculty key (faculty)"},
	{"appendix", scope.ParamAppendix, "appendix letter (section)"},
	{"section", scope.ParamSectionTitle, "section title (section)"},
}

func addScopeFlags(cmd *cobra.Command) *scopeFlags {
	sf := &scopeFlags{values: make(map[string]*string, len(scopeFlagNames))}
	for _, f := range scopeFlagNames {
		sf.values[f.param] = cmd.Flags().String(f.flag, "", f.usage)
	}
	return sf
}

func (sf *scopeFlags) lookup(param string) string {
	if v, ok := sf.values[param]; ok {
		return *v
	}
	return ""
}

// scope builds the scope of namespace from the flags.
func (sf *scopeFlags) scope(namespace string) (scope.Scope, error) {
	ns, err := scope.ParseNamespace(namespace)
	if err != nil {
		return nil, err
	}
	s, err := scope.Parse(ns, sf.lookup)
	if err != nil {
		return nil, err
	}
	if _, err := s.Key(); err != nil {
		return nil, err
	}
	return s, nil
}

// session is the evidence-library context: --cycle and --program.
func (sf *scopeFlags) session() scope.Session {
	return scope.NewSession(sf.lookup(scope.ParamCycleID), sf.lookup(scope.ParamProgramID))
}

func ingestOptions(log *zap.Logger) []ingest.Option {
	return []ingest.Option{ingest.WithLogger(log)}
}
