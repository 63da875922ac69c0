// agentdesk CLI - Command line client for the agentdesk API
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/eldtechnologies/agentdesk/clients/go/agentdesk"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	client := agentdesk.NewClient(os.Getenv("AGENTDESK_URL"))
	cmd := os.Args[1]

	switch cmd {
	case "health":
		resp, err := client.Health()
		exitOnError(err)
		printJSON(resp)

	case "list":
		var search, email string
		if len(os.Args) > 2 {
			search = os.Args[2]
		}
		if len(os.Args) > 3 {
			email = os.Args[3]
		}
		agents, err := client.ListAgents(search, email)
		exitOnError(err)
		for _, a := range agents {
			fmt.Printf("  %s  %s %s <%s> %s\n", a.ID, a.FirstName, a.LastName, a.Email, a.MobileNumber)
		}

	case "get":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: agentdesk get <id>")
			os.Exit(1)
		}
		agent, err := client.GetAgent(os.Args[2])
		exitOnError(err)
		printJSON(agent)

	case "create":
		if len(os.Args) < 6 {
			fmt.Fprintln(os.Stderr, "Usage: agentdesk create <first> <last> <email> <mobile>")
			os.Exit(1)
		}
		agent, err := client.CreateAgent(agentdesk.CreateAgentRequest{
			FirstName:    os.Args[2],
			LastName:     os.Args[3],
			Email:        os.Args[4],
			MobileNumber: os.Args[5],
		})
		exitOnError(err)
		fmt.Printf("Created: %s\n", agent.ID)

	case "update":
		if len(os.Args) < 5 || (len(os.Args)-3)%2 != 0 {
			fmt.Fprintln(os.Stderr, "Usage: agentdesk update <id> <field> <value> [<field> <value>...]")
			os.Exit(1)
		}
		req, err := parseUpdate(os.Args[3:])
		exitOnError(err)
		agent, err := client.UpdateAgent(os.Args[2], req)
		exitOnError(err)
		printJSON(agent)

	case "delete":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: agentdesk delete <id>")
			os.Exit(1)
		}
		agent, err := client.DeleteAgent(os.Args[2])
		exitOnError(err)
		fmt.Printf("Deleted: %s (%s %s)\n", agent.ID, agent.FirstName, agent.LastName)

	case "events":
		evs, err := client.Events(20)
		exitOnError(err)
		for _, ev := range evs {
			fmt.Printf("%s  %-14s %s\n", ev.ID, ev.Type, ev.AgentID)
		}

	case "help", "--help", "-h":
		usage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

// parseUpdate turns field/value pairs into an update request.
func parseUpdate(args []string) (agentdesk.UpdateAgentRequest, error) {
	var req agentdesk.UpdateAgentRequest
	for i := 0; i+1 < len(args); i += 2 {
		value := args[i+1]
		switch args[i] {
		case "firstName":
			req.FirstName = &value
		case "lastName":
			req.LastName = &value
		case "email":
			req.Email = &value
		case "mobileNumber":
			req.MobileNumber = &value
		default:
			return req, fmt.Errorf("unknown field %q", args[i])
		}
	}
	return req, nil
}

func usage() {
	fmt.Println(`agentdesk CLI - property agent directory

Usage: agentdesk <command> [options]

Commands:
  list [search] [email]                    List agents
  get <id>                                 Show an agent
  create <first> <last> <email> <mobile>   Create an agent
  update <id> <field> <value> ...          Update fields (firstName, lastName, email, mobileNumber)
  delete <id>                              Delete an agent
  events                                   Show recent changes
  health                                   Check server health

Environment:
  AGENTDESK_URL   Server URL (default: http://localhost:8080)`)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}
