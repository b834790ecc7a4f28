package clients

import (
	"context"

	graphports "github.com/jupiterclapton/buyv/internal/graph/core/ports"
)

// GraphClient adapte le service graph (in-process dans le monolithe
// modulaire) au port FollowerSource du feed. Si le graphe redevient un
// service séparé, seul cet adapter change.
type GraphClient struct {
	graph graphports.GraphService
}

func NewGraphClient(graph graphports.GraphService) *GraphClient {
	return &GraphClient{graph: graph}
}

func (c *GraphClient) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	return c.graph.StreamFollowers(ctx, userID, batchSize, yield)
}
