package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/LookTrending/internal/database"
	"github.com/TobiSchelling/LookTrending/internal/related"
)

var articlesLimit int

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List published articles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		articles, err := db.ListArticles()
		if err != nil {
			return fmt.Errorf("listing articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No articles yet. Generate one with: looktrending run")
			return nil
		}
		if articlesLimit > 0 && len(articles) > articlesLimit {
			articles = articles[:articlesLimit]
		}

		rows := make([][]string, 0, len(articles))
		for _, a := range articles {
			rows = append(rows, articleRow(a))
		}
		printTable(os.Stdout, []string{"ID", "Date", "Title", "Tags", "Image"}, rows, nil)
		return nil
	},
}

var relatedLimit int

var relatedCmd = &cobra.Command{
	Use:   "related [id]",
	Short: "Show articles sharing tags with the given article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		target, err := db.GetArticle(args[0])
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("article %s not found", args[0])
		}

		pool, err := db.ListArticles()
		if err != nil {
			return fmt.Errorf("listing articles: %w", err)
		}

		fmt.Printf("%s\n  Tags: %s\n\n", target.Title, strings.Join(target.Tags, ", "))
		matches := related.Rank(*target, pool, relatedLimit)
		if len(matches) == 0 {
			fmt.Println("No related articles.")
			return nil
		}

		tags := related.TagSet(target.Tags)
		rows := make([][]string, 0, len(matches))
		for _, a := range matches {
			rows = append(rows, []string{
				strconv.Itoa(related.Score(tags, a.Tags)),
				a.ID,
				a.Title,
				strings.Join(a.Tags, ", "),
			})
		}
		printTable(os.Stdout, []string{"Shared", "ID", "Title", "Tags"}, rows, []columnAlignment{alignRight})
		return nil
	},
}

func init() {
	articlesCmd.Flags().IntVarP(&articlesLimit, "limit", "n", 20, "Maximum articles to list (0 for all)")
	relatedCmd.Flags().IntVarP(&relatedLimit, "limit", "n", related.DefaultLimit, "Maximum related articles")
}

func articleRow(a database.Article) []string {
	image := "no"
	if a.HasImage() {
		image = "yes"
	}
	return []string{
		a.ID,
		a.Date.Local().Format("2006-01-02 15:04"),
		a.Title,
		strings.Join(a.Tags, ", "),
		image,
	}
}
