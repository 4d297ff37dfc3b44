package provider

type File struct {
	Name string

	Content     []byte
	ContentType string
}
