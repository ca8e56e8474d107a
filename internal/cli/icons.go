package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/animicons/internal/icon"
)

// IconSummary is one row of `icons list`.
type IconSummary struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// IconList is the result of `icons list`.
type IconList struct {
	Icons []IconSummary `json:"icons"`
}

func (l IconList) String() string {
	lines := make([]string, len(l.Icons))
	for i, ic := range l.Icons {
		lines[i] = strings.TrimRight(fmt.Sprintf("%-12s %s", ic.Name, ic.Category), " ")
	}
	return strings.Join(lines, "\n")
}

// IconDetail is the result of `icons show`.
type IconDetail struct {
	icon.Definition
	Metadata *icon.Metadata `json:"metadata,omitempty"`
}

func (d IconDetail) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "name:     %s\n", d.Name)
	fmt.Fprintf(&b, "viewBox:  %s\n", d.ViewBox)
	fmt.Fprintf(&b, "path:     %s", d.Path)
	if m := d.Metadata; m != nil {
		fmt.Fprintf(&b, "\ntitle:    %s\n", m.Name)
		fmt.Fprintf(&b, "category: %s\n", m.Category)
		fmt.Fprintf(&b, "tags:     %s\n", strings.Join(m.Tags, ", "))
		fmt.Fprintf(&b, "about:    %s", m.Description)
	}
	return b.String()
}

// LoadedIcon is the result of `icons load`.
type LoadedIcon struct {
	icon.Definition
}

func (l LoadedIcon) String() string {
	return fmt.Sprintf("%s %s %s", l.Name, l.ViewBox, l.Path)
}

// CategoryList is the result of `icons categories`.
type CategoryList struct {
	Categories []icon.Category `json:"categories"`
}

func (c CategoryList) String() string {
	lines := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		lines[i] = fmt.Sprintf("%s: %s", cat.Name, strings.Join(cat.Icons, ", "))
	}
	return strings.Join(lines, "\n")
}

// NewIconsCommand creates the icons command group.
func NewIconsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Browse the icon catalog",
		Long: `Browse the icon catalog.

The built-in catalog is used unless the catalog setting points at a CUE
file.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List available icons in registration order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIconsList(rootOpts, cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "show <name>",
		Short:         "Show an icon's definition and metadata",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIconsShow(rootOpts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <name>",
		Short: "Resolve an icon through its registry loader",
		Long: `Resolve an icon through its registry loader, as a renderer would.

Unknown icons and loader failures are logged and reported as exit code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIconsLoad(rootOpts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "categories",
		Short:         "List icon categories",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIconsCategories(rootOpts, cmd)
		},
	})

	return cmd
}

func runIconsList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	names := s.library.AvailableIcons()
	list := IconList{Icons: make([]IconSummary, 0, len(names))}
	for _, name := range names {
		summary := IconSummary{Name: name}
		if meta, ok := s.library.IconMetadata(name); ok {
			summary.Category = meta.Category
			summary.Tags = meta.Tags
		}
		list.Icons = append(list.Icons, summary)
	}
	return s.out.Success(list)
}

func runIconsShow(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.library.HasIcon(name) {
		return s.out.Fail(ExitFailure, ErrCodeUnknownIcon, fmt.Sprintf("unknown icon %q", name), nil)
	}
	def, ok := s.library.GetIcon(s.ctx, name)
	if !ok {
		return s.out.Fail(ExitFailure, ErrCodeUnknownIcon, fmt.Sprintf("failed to load icon %q", name), nil)
	}

	detail := IconDetail{Definition: def}
	if meta, ok := s.library.IconMetadata(name); ok {
		detail.Metadata = &meta
	}
	return s.out.Success(detail)
}

func runIconsLoad(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	def, ok := s.library.GetIcon(s.ctx, name)
	if !ok {
		return s.out.Fail(ExitFailure, ErrCodeUnknownIcon, fmt.Sprintf("failed to load icon %q", name), nil)
	}
	return s.out.Success(LoadedIcon{Definition: def})
}

func runIconsCategories(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.out.Success(CategoryList{Categories: s.library.Categories()})
}
