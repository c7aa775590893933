package agent

import (
	"context"
	"fmt"

	"github.com/skatz510/foliosim"
	"github.com/skatz510/foliosim/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and keep context of your previous questions.

			The user is here to understand how their simulated portfolio would have
			behaved: its worth over time, its growth rate and its exposures.
			Check the portfolio with the Analyst first so you know their tickers.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher is an expert with Google Search, for questions about funds,
// companies and market news.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `An expert researcher, aware of financial products, funds
		and companies. Ask the Researcher whenever you need recent or grounding
		information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert researcher on financial markets, funds and companies.
			You leverage Google Search to ground your assertions and to get the
			latest news, and you relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst is the expert that knows the user's portfolio. It reads the
// simulation through function calls.
func NewAnalyst(sim *foliosim.Simulation) *Expert {
	lib := analystFunctions(sim)

	return &Expert{
		Name: "Analyst",
		Description: `The Analyst knows the user's portfolio: its holdings,
		their weights, the simulated worth over time, the growth rates and the
		currency and sector exposures.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's simulated portfolio.
				Use the available tools to answer questions about the portfolio:
				  - holdings and their weights
				  - worth over time
				  - growth rates
				  - currency and sector exposures
				Other experts might ask you questions with approximate language,
				figure out what they meant.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// analystFunctions exposes the simulation reports as callable tools. Every
// tool returns a markdown report.
func analystFunctions(sim *foliosim.Simulation) []Function {
	report := func(name, description string, render func() string) Function {
		return &Func{
			Decl: &genai.FunctionDeclaration{
				Name:        name,
				Description: description,
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown-formatted report.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return &genai.FunctionResponse{
					ID:       id,
					Name:     name,
					Response: map[string]any{"output": render()},
				}
			},
		}
	}

	return []Function{
		report("Summary",
			"The portfolio holdings with their tickers, names, currencies, weights and growth rates.",
			func() string { return renderer.SummaryMarkdown(sim) }),
		report("Worth",
			"The simulated worth of the portfolio over time, most recent year of data.",
			func() string { return renderer.HistoryMarkdown(sim, 52) }),
		report("GrowthRates",
			"The compound annual growth rate of each holding and of the whole portfolio.",
			func() string { return renderer.CAGRMarkdown(sim) }),
		report("CurrencyExposure",
			"The portfolio weight per trading currency.",
			func() string { return renderer.ExposureMarkdown("Currency Exposure", sim.CurrencySplit()) }),
		report("SectorExposure",
			"The portfolio weight per industry sector.",
			func() string { return renderer.ExposureMarkdown("Sector Exposure", sim.SectorSplit()) }),
	}
}

// Describe returns a short description of the experts, for the CLI help.
func Describe(experts ...*Expert) string {
	var s string
	for _, e := range experts {
		s += fmt.Sprintf("- %s: %s\n", e.Name, e.Description)
	}
	return s
}
