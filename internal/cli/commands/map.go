package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uhco-curriculum/lomap/internal/cli/prompt"
	"github.com/uhco-curriculum/lomap/internal/mapping"
	"github.com/uhco-curriculum/lomap/internal/watch"
	"github.com/uhco-curriculum/lomap/pkg/core"
)

// courseContext is the course an objective belongs to; it carries over between entries.
type courseContext struct {
	Year, Semester, Course, Type string
}

// mapFlags are the map command options.
type mapFlags struct {
	year     string
	semester string
	course   string
	useTUI   bool
	watch    bool
	once     bool
}

// NewMapCommand creates the map command.
func NewMapCommand() *cobra.Command {
	var flags mapFlags

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Enter learning objectives and map them to standards",
		Long: `Enter learning objectives for a course and map each one to the standards
taxonomies.

For every objective you give the lecture, the objective text, the Bloom level,
the teaching activity, the assessment method, the difficulty and whether it is
assessed. An assessed objective is mapped level by level to each taxonomy,
linked to an ACOE standard and given one or more exam questions; each question
becomes its own saved row. An objective that is not assessed records a
justification instead.`,
		Example: `  # Enter objectives interactively
  lomap map

  # Fix the course up front and save to SQLite
  lomap map --year 1 --semester Fall --course "Optics I" --store sqlite

  # Reload taxonomies when the workbook changes
  lomap map --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			if err := c.LoadTaxonomies(cmd.Context()); err != nil {
				return err
			}
			store, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			p, err := newPrompter(cmd, flags.useTUI)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if flags.watch {
				w := watch.NewFile(c.Cfg.Workbook, func(ctx context.Context) error {
					if err := c.Registry.Reload(ctx, c.Workbook); err != nil {
						return err
					}
					c.Renderer.Muted("taxonomies reloaded")
					return nil
				}, c.Logger)
				go func() { _ = w.Run(ctx) }()
			}

			return runMap(ctx, c, mapping.NewService(store, c.Registry, c.Logger), p, flags)
		},
	}

	cmd.Flags().StringVar(&flags.year, "year", "", "Course year")
	cmd.Flags().StringVar(&flags.semester, "semester", "", "Course semester")
	cmd.Flags().StringVar(&flags.course, "course", "", "Course name")
	cmd.Flags().BoolVar(&flags.useTUI, "tui", false, "Use the full-screen picker")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "Reload taxonomies when the workbook changes")
	cmd.Flags().BoolVar(&flags.once, "once", false, "Save a single objective and exit")

	return cmd
}

func runMap(ctx context.Context, c *CommandContext, svc *mapping.Service, p prompt.Prompter, flags mapFlags) error {
	r := c.Renderer
	ref := c.Registry.Reference()
	if ref == nil {
		return errors.New("reference workbook not loaded")
	}

	course, err := chooseCourse(p, ref.Courses, flags)
	if err != nil {
		return err
	}

	for {
		r.Header(2, fmt.Sprintf("%s (Year %s, %s, %s)", course.Course, course.Year, course.Semester, course.Type))

		draft, err := enterObjective(c, p, ref, course)
		if err != nil {
			return err
		}

		n, err := svc.Save(ctx, draft)
		var verr *core.ValidationError
		switch {
		case errors.As(err, &verr):
			for _, f := range verr.Fields {
				r.Warning(f.Error)
			}
		case err != nil:
			return err
		default:
			r.Success(fmt.Sprintf("Learning objective saved (%d %s)", n, plural(n, "row")))
		}

		if flags.once {
			return nil
		}
		again, err := p.Ask("Add another objective? (yes/no)", "no")
		if err != nil {
			return err
		}
		if !core.IsYes(again) && !strings.EqualFold(again, "y") {
			return nil
		}
	}
}

// chooseCourse walks the year, semester, course and type cascade.
// Values given as flags are checked against the catalogue instead of asked.
func chooseCourse(p prompt.Prompter, courses core.Courses, flags mapFlags) (courseContext, error) {
	var cc courseContext
	var err error

	pick := func(label, given string, options []string) (string, error) {
		if len(options) == 0 {
			return "", fmt.Errorf("no %s available in the courses sheet", strings.ToLower(label))
		}
		if given != "" {
			if slices.Contains(options, given) {
				return given, nil
			}
			return prompt.Resolve(given, options)
		}
		if len(options) == 1 {
			return options[0], nil
		}
		return p.Choose(label, options)
	}

	if cc.Year, err = pick("Year", flags.year, courses.Years()); err != nil {
		return cc, err
	}
	if cc.Semester, err = pick("Semester", flags.semester, courses.Semesters(cc.Year)); err != nil {
		return cc, err
	}
	if cc.Course, err = pick("Course", flags.course, courses.Descriptions(cc.Year, cc.Semester)); err != nil {
		return cc, err
	}
	if cc.Type, err = pick("Lecture or lab", "", courses.Types(cc.Year, cc.Semester, cc.Course)); err != nil {
		return cc, err
	}
	return cc, nil
}

func enterObjective(c *CommandContext, p prompt.Prompter, ref *core.ReferenceData, course courseContext) (mapping.Draft, error) {
	d := mapping.Draft{
		Year:       course.Year,
		Semester:   course.Semester,
		CourseName: course.Course,
		Type:       course.Type,
	}
	if d.Type == core.NotSpecifiedType {
		d.Type = ""
	}

	var err error
	if d.LectureName, err = p.Ask("Lecture name", ""); err != nil {
		return d, err
	}
	if d.LearningObjective, err = p.Ask("Learning objective", ""); err != nil {
		return d, err
	}
	if d.BloomDescription, err = chooseOptional(p, "Bloom level", ref.BloomDescriptions()); err != nil {
		return d, err
	}
	if d.Activity, err = chooseOptional(p, "Activity", ref.Activities); err != nil {
		return d, err
	}
	if d.AssessmentMethod, err = chooseOptional(p, "Assessment method", ref.Methods); err != nil {
		return d, err
	}
	if d.Difficulty, err = chooseOptional(p, "Difficulty", ref.Difficulties); err != nil {
		return d, err
	}
	if d.IsAssessed, err = chooseOptional(p, "Is this LO assessed?", ref.Assessed); err != nil {
		return d, err
	}

	if !d.Assessed() {
		d.Justification, err = p.Ask("Justification for not assessing", "")
		return d, err
	}

	if d.Standards, err = chooseStandards(c, p); err != nil {
		return d, err
	}
	if d.ACOEStandard, err = chooseOptional(p, "ACOE standard", c.Cfg.ACOEStandards); err != nil {
		return d, err
	}
	d.Questions, err = askQuestions(p)
	return d, err
}

// chooseOptional asks for one of options, or returns "" when there are none.
func chooseOptional(p prompt.Prompter, label string, options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	return p.Choose(label, options)
}

func chooseStandards(c *CommandContext, p prompt.Prompter) ([]core.Standard, error) {
	r := c.Renderer
	announce := func(label string, level int, choice string) {
		r.Muted(fmt.Sprintf("%s level %d: %s", label, level, choice))
	}

	var standards []core.Standard
	for _, tc := range c.Registry.All() {
		sel, err := c.Registry.Selector(tc.Name)
		if err != nil {
			r.Warning(fmt.Sprintf("%s unavailable: %v", tc.Label, err))
			continue
		}
		result, err := sel.Run(prompt.Chooser(p, announce))
		if err != nil {
			return nil, err
		}
		if result.IsEmpty() {
			r.Muted(fmt.Sprintf("%s: not mapped", tc.Label))
			continue
		}
		r.Muted(fmt.Sprintf("%s: %s", tc.Label, result.Combined))
		standards = append(standards, core.Standard{Column: tc.Column, SelectionResult: result})
	}
	return standards, nil
}

// askQuestions reads questions until a blank answer.
func askQuestions(p prompt.Prompter) ([]string, error) {
	var questions []string
	for {
		q, err := p.Ask(fmt.Sprintf("Question %d (blank to finish)", len(questions)+1), "")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(q) == "" {
			return questions, nil
		}
		questions = append(questions, q)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

