package service

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inkwell/app/models"
	"inkwell/app/services"
)

// withServices opens the store for the duration of fn.
func (c *cli) withServices(fn func(posts *services.PostService, comments *services.CommentService) error) error {
	store, err := openStore(c.cfg, c.logger, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			c.logger.Warn("close store", zap.Error(err))
		}
	}()
	return fn(
		services.NewPostService(store.Posts, store.Tags, store.Users, c.cfg.Blog),
		services.NewCommentService(store.Comments),
	)
}

func (c *cli) authorCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "author", Short: "Manage post authors"}

	var email string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Register an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(posts *services.PostService, _ *services.CommentService) error {
				user, err := posts.AddAuthor(args[0], email)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Author %s added with id %d\n", user.Username, user.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&email, "email", "", "Author email address")

	cmd.AddCommand(add)
	return cmd
}

func (c *cli) postCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "post", Short: "Write and publish posts"}
	cmd.AddCommand(c.postAddCommand(), c.postPublishCommand(), c.postDeleteCommand())
	return cmd
}

func (c *cli) postAddCommand() *cobra.Command {
	var (
		author    string
		title     string
		slug      string
		body      string
		bodyFile  string
		tags      []string
		publish   string
		published bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Write a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if slug != "" && models.Slugify(slug) != slug {
				return fmt.Errorf("invalid slug %q: use lowercase letters, digits, underscores and dashes, e.g. %q", slug, models.Slugify(slug))
			}
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("read body: %w", err)
				}
				body = string(data)
			}
			post := &models.Post{Title: strings.TrimSpace(title), Slug: slug, Body: body, Status: models.StatusDraft}
			if published {
				post.Status = models.StatusPublished
			}
			if publish != "" {
				t, err := time.Parse(time.RFC3339, publish)
				if err != nil {
					return fmt.Errorf("--publish: %w", err)
				}
				post.Publish = t
			}
			post.SetTags(tags...)

			return c.withServices(func(posts *services.PostService, _ *services.CommentService) error {
				if err := posts.CreatePost(author, post); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d created at %s (%s)\n", post.ID, post.URL(), post.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "Username of the author")
	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (default: derived from the title)")
	cmd.Flags().StringVar(&body, "body", "", "Post body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the post body from a file")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma separated tag names")
	cmd.Flags().StringVar(&publish, "publish", "", "Publication time, RFC 3339 (default: now)")
	cmd.Flags().BoolVar(&published, "published", false, "Publish immediately instead of saving a draft")
	cmd.MarkFlagRequired("author")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	return cmd
}

func (c *cli) postPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <slug>",
		Short: "Publish a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(posts *services.PostService, _ *services.CommentService) error {
				post, err := posts.Publish(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d published at %s\n", post.ID, post.URL())
				return nil
			})
		},
	}
}

func (c *cli) postDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			return c.withServices(func(posts *services.PostService, _ *services.CommentService) error {
				if err := posts.DeletePost(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted\n", id)
				return nil
			})
		},
	}
}

func (c *cli) commentCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "comment", Short: "Moderate comments"}

	list := &cobra.Command{
		Use:   "list <post slug>",
		Short: "List every comment on a post, hidden ones included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(posts *services.PostService, comments *services.CommentService) error {
				post, err := posts.GetBySlug(args[0])
				if err != nil {
					return err
				}
				all, err := comments.ListPostComments(post.ID)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tEMAIL\tACTIVE\tCREATED")
				for _, cm := range all {
					fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", cm.ID, cm.Name, cm.Email, cm.Active, cm.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(list, c.commentToggleCommand("hide", false), c.commentToggleCommand("show", true))
	return cmd
}

func (c *cli) commentToggleCommand(verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid comment id %q", args[0])
			}
			return c.withServices(func(_ *services.PostService, comments *services.CommentService) error {
				comment, err := comments.SetActive(id, active)
				if err != nil {
					return fmt.Errorf("comment %d: %w", id, err)
				}
				state := "hidden"
				if comment.Active {
					state = "visible"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment %d is now %s\n", comment.ID, state)
				return nil
			})
		},
	}
}

func (c *cli) tagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "tag", Short: "Inspect tags"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(posts *services.PostService, _ *services.CommentService) error {
				tags, err := posts.Tags()
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Slug, t.Name)
				}
				return nil
			})
		},
	})
	return cmd
}
