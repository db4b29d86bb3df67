package reconciler

// UpdatedProduct describes one successfully reconciled product, in
// the shape the UI consumes.
type UpdatedProduct struct {
	Shop         string `json:"shop"`
	ProductID    int64  `json:"productId"`
	ProductTitle string `json:"productTitle"`
	VideoURL     string `json:"videoUrl"`
	SourceMethod string `json:"sourceMethod"`
	AISummary    string `json:"aiSummary"`
	Highlights   string `json:"highlights"`
}

// ErroredProduct describes one failed item of a batch.
type ErroredProduct struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title,omitempty"`
	Reason    string `json:"reason"`
}

// ItemOutcome is one tagged success-or-failure variant of a batch
// operation. Exactly one of Product and Err is set.
type ItemOutcome struct {
	ProductID int64
	Product   *UpdatedProduct
	Err       error
	Title     string
}

// BatchResult accumulates per-item outcomes. Batch operations run
// item by item; one failure never aborts the rest.
type BatchResult struct {
	Items []ItemOutcome
}

func (b *BatchResult) succeed(product UpdatedProduct) {
	b.Items = append(b.Items, ItemOutcome{
		ProductID: product.ProductID,
		Product:   &product,
		Title:     product.ProductTitle,
	})
}

func (b *BatchResult) fail(productID int64, title string, err error) {
	b.Items = append(b.Items, ItemOutcome{ProductID: productID, Title: title, Err: err})
}

func (b BatchResult) Updated() []UpdatedProduct {
	updated := make([]UpdatedProduct, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Product != nil {
			updated = append(updated, *item.Product)
		}
	}
	return updated
}

func (b BatchResult) Errored() []ErroredProduct {
	errored := make([]ErroredProduct, 0)
	for _, item := range b.Items {
		if item.Err != nil {
			errored = append(errored, ErroredProduct{
				ProductID: item.ProductID,
				Title:     item.Title,
				Reason:    item.Err.Error(),
			})
		}
	}
	return errored
}

func (b BatchResult) AnyFailed() bool {
	for _, item := range b.Items {
		if item.Err != nil {
			return true
		}
	}
	return false
}

func (b BatchResult) AllFailed() bool {
	if len(b.Items) == 0 {
		return false
	}
	for _, item := range b.Items {
		if item.Err == nil {
			return false
		}
	}
	return true
}
