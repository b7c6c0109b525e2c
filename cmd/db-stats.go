package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display the number of users, sections, posts, comments and documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDatabase(loadConfig())
		defer db.Close() //nolint: errcheck

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %d\n", stats.Users)
		fmt.Printf("Sections: %d\n", stats.Sections)
		fmt.Printf("Posts: %d\n", stats.Posts)
		fmt.Printf("Comments: %d\n", stats.Comments)
		fmt.Printf("Documents: %d\n", stats.Documents)

		sections, err := db.GetAllSections(cmd.Context())
		if err == nil && len(sections) > 0 {
			fmt.Println("\nSections:")
			for _, s := range sections {
				fmt.Printf("  %s: %d posts\n", s.Name, s.PostCount)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
