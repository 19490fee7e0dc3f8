package handler

func (h *Handler) DummyHash() string { return h.dummyHash }
