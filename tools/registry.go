package tools

// Registry returns the search and scrape definitions wired for the agent.
func Registry(searcher *Searcher, scraper *Scraper) []ToolDefinition {
	return []ToolDefinition{searcher.definition(), scraper.definition()}
}
