package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/antonkarev/notedeck/internal/cli/formatter"
	"github.com/antonkarev/notedeck/internal/pipeline"
	"github.com/antonkarev/notedeck/internal/tags"
)

func newListCmd(app *App) *cobra.Command {
	var (
		filter    string
		project   string
		session   string
		search    string
		sortFlag  sortValue
		group     string
		tagChip   string
		colType   string
		colProj   string
		colSess   string
		colStatus string
		colUrgent string
		colDue    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the filtered note tree",
		Long: `Show notes filtered, sorted, and grouped. The search string uses the
same tag mini-language as quick entry, plus /s SESSION, /t STATUS, and
/d none; fragments that match nothing fall back to free-text search.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			d, idx := dataIndex(app)

			q := pipeline.Query{
				FilterBy: pipeline.FilterBy(filter),
				GroupBy:  pipeline.GroupBy(group),
				Columns: pipeline.ColumnFilters{
					Type:   colType,
					Status: colStatus,
					Urgent: colUrgent,
					Due:    colDue,
				},
			}

			if project != "" {
				projectID, err := resolveProjectID(app, project)
				if err != nil {
					return err
				}
				q.SelectedProjectID = projectID
				if q.FilterBy == "" {
					q.FilterBy = pipeline.FilterProject
				}
			}
			if session != "" {
				if session == "all" {
					q.SessionFilter = pipeline.SessionFilterAll
				} else {
					sessionID, err := resolveSessionID(app, session)
					if err != nil {
						return err
					}
					q.SessionFilter = sessionID
				}
				if q.FilterBy == "" {
					q.FilterBy = pipeline.FilterSession
				}
			}
			if colProj != "" {
				projectID, err := resolveProjectID(app, colProj)
				if err != nil {
					return err
				}
				q.Columns.ProjectID = projectID
			}
			if colSess != "" {
				sessionID, err := resolveSessionID(app, colSess)
				if err != nil {
					return err
				}
				q.Columns.SessionID = sessionID
			}
			if tagChip != "" {
				tf, err := parseTagChip(app, tagChip)
				if err != nil {
					return err
				}
				q.TagFilter = tf
			}
			q.Sort = sortFlag.cfg
			if search != "" {
				criteria := tags.CompileSearch(search, d.Projects, d.Sessions, now)
				q.Search = &criteria
			}

			res := pipeline.Evaluate(d, idx, q, now)
			buckets := pipeline.GroupNotes(res.TopLevel, idx, q.GroupBy, now)

			if len(res.TopLevel) == 0 {
				fmt.Fprintln(app.out(), "No notes match.")
				return nil
			}

			showEmpty := q.GroupBy == pipeline.GroupDueDate
			out := formatter.RenderBuckets(buckets, idx, res, pipeline.RowOptions{}, showEmpty, now)
			fmt.Fprint(app.out(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Base filter: all, project, urgent, due_week, to_do, session")
	cmd.Flags().StringVar(&project, "project", "", "Project for the project filter")
	cmd.Flags().StringVar(&session, "session", "", "Session for the session filter ('all' for any session)")
	cmd.Flags().StringVar(&search, "search", "", "Search string with inline tags")
	cmd.Flags().Var(&sortFlag, "sort", "Column sort: col[:asc|desc] (type, project, session, due_date, urgent, status, created_at)")
	cmd.Flags().StringVar(&group, "group", "", "Grouping: none, project, type, session, due_date")
	cmd.Flags().StringVar(&tagChip, "tag", "", "Tag chip filter: project:NAME, type:ID, or status:VALUE")
	cmd.Flags().StringVar(&colType, "col-type", "", "Column filter: note type id")
	cmd.Flags().StringVar(&colProj, "col-project", "", "Column filter: project")
	cmd.Flags().StringVar(&colSess, "col-session", "", "Column filter: session")
	cmd.Flags().StringVar(&colStatus, "col-status", "", "Column filter: status")
	cmd.Flags().StringVar(&colUrgent, "col-urgent", "", "Column filter: true or false")
	cmd.Flags().StringVar(&colDue, "col-due", "", "Column filter: none, overdue, week, or YYYY-MM-DD")

	return cmd
}

func parseTagChip(app *App, spec string) (*pipeline.TagFilter, error) {
	kind, value, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("invalid --tag %q, expected kind:value", spec)
	}
	switch pipeline.TagFilterKind(kind) {
	case pipeline.TagFilterProject:
		projectID, err := resolveProjectID(app, value)
		if err != nil {
			return nil, err
		}
		return &pipeline.TagFilter{Kind: pipeline.TagFilterProject, Value: projectID}, nil
	case pipeline.TagFilterType:
		typeID, err := resolveTypeID(app, value)
		if err != nil {
			return nil, err
		}
		return &pipeline.TagFilter{Kind: pipeline.TagFilterType, Value: typeID}, nil
	case pipeline.TagFilterStatus:
		return &pipeline.TagFilter{Kind: pipeline.TagFilterStatus, Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown tag chip kind %q", kind)
	}
}

// sortValue is the pflag.Value behind --sort, validating the column and
// direction as the flag is parsed.
type sortValue struct {
	cfg pipeline.SortConfig
}

func (v *sortValue) String() string {
	if v.cfg.Column == pipeline.SortNone {
		return ""
	}
	return fmt.Sprintf("%s:%s", v.cfg.Column, v.cfg.Direction)
}

func (v *sortValue) Set(spec string) error {
	cfg, err := parseSortSpec(spec)
	if err != nil {
		return err
	}
	v.cfg = cfg
	return nil
}

func (v *sortValue) Type() string {
	return "col[:asc|desc]"
}

var _ pflag.Value = (*sortValue)(nil)

func parseSortSpec(spec string) (pipeline.SortConfig, error) {
	col, dir, hasDir := strings.Cut(spec, ":")
	cfg := pipeline.SortConfig{Column: pipeline.SortColumn(col), Direction: pipeline.SortAsc}

	switch cfg.Column {
	case pipeline.SortType, pipeline.SortProject, pipeline.SortSession,
		pipeline.SortDueDate, pipeline.SortUrgent, pipeline.SortStatus, pipeline.SortCreated:
	default:
		return pipeline.SortConfig{}, fmt.Errorf("unknown sort column %q", col)
	}

	if hasDir {
		switch dir {
		case "asc":
			cfg.Direction = pipeline.SortAsc
		case "desc":
			cfg.Direction = pipeline.SortDesc
		default:
			return pipeline.SortConfig{}, fmt.Errorf("sort direction must be asc or desc, got %q", dir)
		}
	}
	return cfg, nil
}
