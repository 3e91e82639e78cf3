package command

import (
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"lnr/internal/models"
)

const promptHeader = `You parse natural language commands for a task management app.`

const promptBody = `Status values: todo, in_progress, in_review, done
Priority values: urgent, high, medium, low, none

Command patterns:
- "create task <title>" → create_task
- "mark TASK-X done/in progress/review/todo" → update_status
- "set TASK-X priority high/urgent/medium/low" → update_priority
- "assign TASK-X to <name>" → assign_task
- "find/search <keyword>" → search_tasks

Status aliases:
- "done", "complete", "finished" → done
- "in progress", "working", "started" → in_progress
- "review", "in review" → in_review
- "todo", "backlog", "open" → todo

Match assignee names fuzzy (Sarah = Sarah Chen).
Extract task IDs in exact format TASK-N.`

// SystemPrompt renders the instructions sent with every command, listing the
// given team member names.
func SystemPrompt(memberNames []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\n")
	if len(memberNames) > 0 {
		b.WriteString("Available team members: ")
		b.WriteString(strings.Join(memberNames, ", "))
	} else {
		b.WriteString("No team members are registered.")
	}
	b.WriteString("\n\n")
	b.WriteString(promptBody)
	return b.String()
}

func taskIDParam() jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: "Task ID like " + models.FormatTaskID(5)}
}

// Tools returns the function definitions offered to the model, one per action.
func Tools() []openai.Tool {
	statusEnum := models.StatusStrings()
	priorityEnum := models.PriorityStrings()

	defs := []openai.FunctionDefinition{
		{
			Name:        ActionCreateTask,
			Description: "Create a new task",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"title":         {Type: jsonschema.String, Description: "Task title"},
					"priority":      {Type: jsonschema.String, Enum: priorityEnum},
					"assignee_name": {Type: jsonschema.String, Description: "Team member name to assign"},
				},
				Required: []string{"title"},
			},
		},
		{
			Name:        ActionUpdateStatus,
			Description: "Change task status (mark done, in progress, etc)",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"task_id": taskIDParam(),
					"status":  {Type: jsonschema.String, Enum: statusEnum},
				},
				Required: []string{"task_id", "status"},
			},
		},
		{
			Name:        ActionUpdatePriority,
			Description: "Change task priority",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"task_id":  taskIDParam(),
					"priority": {Type: jsonschema.String, Enum: priorityEnum},
				},
				Required: []string{"task_id", "priority"},
			},
		},
		{
			Name:        ActionAssignTask,
			Description: "Assign task to a team member",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"task_id":       taskIDParam(),
					"assignee_name": {Type: jsonschema.String, Description: "Team member name"},
				},
				Required: []string{"task_id", "assignee_name"},
			},
		},
		{
			Name:        ActionSearchTasks,
			Description: "Search for tasks by keyword",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {Type: jsonschema.String, Description: "Search term"},
				},
				Required: []string{"query"},
			},
		},
	}

	tools := make([]openai.Tool, 0, len(defs))
	for i := range defs {
		tools = append(tools, openai.Tool{Type: openai.ToolTypeFunction, Function: &defs[i]})
	}
	return tools
}
