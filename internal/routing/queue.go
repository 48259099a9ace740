package routing

import "github.com/caminoseguro/walkroute_core/internal/models"

// searchItem is one entry of the priority queue shared by Dijkstra, A*, and
// Branch-and-Bound. fScore is the ordering key (gScore for Dijkstra,
// gScore+heuristic for A*, path cost for Branch-and-Bound). Items with equal
// fScore are not ordered by insertion: container/heap is not stable, so their
// relative order follows the heap's sift sequence, which is the same for the
// same sequence of pushes and pops.
type searchItem struct {
	node   models.NodeID
	gScore float64
	fScore float64
	path   []models.NodeID
	index  int
}

// priorityQueue implements heap.Interface over searchItem, ordered by fScore.
type priorityQueue []*searchItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].fScore < pq[j].fScore
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*searchItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}
