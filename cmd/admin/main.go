// Package main provides admin management utilities for Quill.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/repository"
	"quill/internal/service"
)

// Groups have no self-service surface, and account removal is destructive.
// Both are operator actions and live here instead of in HTTP handlers.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go create-group <title> <slug> [description]  - Create a group")
		fmt.Println("  go run ./cmd/admin/main.go list-groups                                - List all groups")
		fmt.Println("  go run ./cmd/admin/main.go delete-group <slug>                        - Delete a group, posts survive")
		fmt.Println("  go run ./cmd/admin/main.go delete-user <username>                     - Delete a user and their content")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	groups := service.NewGroupService(groupRepo)
	users := service.NewUserService(userRepo)

	ctx := context.Background()
	command := os.Args[1]

	switch command {
	case "create-group":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin/main.go create-group <title> <slug> [description]")
			os.Exit(1)
		}
		description := ""
		if len(os.Args) > 4 {
			description = os.Args[4]
		}
		createGroup(ctx, groups, os.Args[2], os.Args[3], description)

	case "list-groups":
		listGroups(ctx, groups)

	case "delete-group":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go delete-group <slug>")
			os.Exit(1)
		}
		deleteGroup(ctx, groups, groupRepo, os.Args[2])

	case "delete-user":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go delete-user <username>")
			os.Exit(1)
		}
		deleteUser(ctx, users, os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createGroup(ctx context.Context, groups *service.GroupService, title, slug, description string) {
	group, err := groups.CreateGroup(ctx, title, slug, description)
	if err != nil {
		log.Fatalf("Failed to create group: %v", err)
	}
	fmt.Printf("Created group %q at /group/%s (ID: %d)\n", group.Title, group.Slug, group.ID)
}

func listGroups(ctx context.Context, groups *service.GroupService) {
	all, err := groups.ListGroups(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch groups: %v", err)
	}

	if len(all) == 0 {
		fmt.Println("No groups found")
		return
	}

	for _, group := range all {
		fmt.Printf("%4s  %-30s  /group/%s\n", strconv.FormatUint(uint64(group.ID), 10), group.Title, group.Slug)
	}
}

func deleteGroup(ctx context.Context, groups *service.GroupService, groupRepo repository.GroupRepository, slug string) {
	group, err := groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		log.Fatalf("Group %q not found: %v", slug, err)
	}

	if err := groups.DeleteGroup(ctx, group.ID); err != nil {
		log.Fatalf("Failed to delete group: %v", err)
	}
	fmt.Printf("Deleted group %q; its posts were kept and ungrouped\n", group.Title)
}

func deleteUser(ctx context.Context, users *service.UserService, username string) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("User %q not found: %v", username, err)
	}

	if err := users.DeleteUser(ctx, user.ID); err != nil {
		log.Fatalf("Failed to delete user: %v", err)
	}
	fmt.Printf("Deleted user %q with their posts, comments and follows\n", username)
}
