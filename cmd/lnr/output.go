package main

import (
	"fmt"
	"os"

	"lnr/internal/api"
	"lnr/internal/format"
	"lnr/internal/models"
)

var outputFormatter format.Formatter = format.JSONFormatter{Indent: true}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeTaskList(tasks []api.TaskResponse) error {
	if len(tasks) == 0 {
		return writePlain("No tasks.\n")
	}
	for _, task := range tasks {
		if err := writePlain("%s\n", format.TaskLine(task)); err != nil {
			return err
		}
	}
	return nil
}

func writeTask(task api.TaskResponse, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(task)
	}
	return writePlain("%s\n", format.TaskDetail(task))
}

func writeComments(comments []models.Comment) error {
	for _, comment := range comments {
		if err := writePlain("%s\n", format.CommentLine(comment)); err != nil {
			return err
		}
	}
	return nil
}
