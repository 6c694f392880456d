package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ddrutch/AWSInfoGraphic/pkg/platform"
)

// newPlatformsCmd creates the platforms command, which lists the supported
// target platforms with their canvas specs.
func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported target platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Supported platforms"))
			for _, spec := range platform.All() {
				line := fmt.Sprintf("%-11s %4dx%-4d  %-4s  max %2d elements  %s scheme",
					spec.ID, spec.Width, spec.Height,
					strings.ToLower(spec.DefaultFormat), spec.MaxElements, spec.DefaultScheme)
				fmt.Println("  " + StyleValue.Render(line))
			}
			return nil
		},
	}
}
