package bind_group_provider

// BufferWrite targets one uniform buffer binding on a provider at a byte
// offset. The renderer batches writes so per-frame uniforms for every object
// go to the queue in a single call.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
