package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"vfsutil/pkg/fileops"
	"vfsutil/pkg/location"
	"vfsutil/pkg/volume"
)

type toolEntry struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (s *Server) tools() []toolEntry {
	return []toolEntry{
		{
			tool: mcp.NewTool("copy_file",
				mcp.WithDescription("Copy a file to a new location. The destination never contains a truncated file: data goes to a temporary *.partial~ file that is renamed into place once complete."),
				mcp.WithString("source", mcp.Required(), mcp.Description("Path or URI of the file to copy")),
				mcp.WithString("destination", mcp.Required(), mcp.Description("Path or URI of the new file")),
				mcp.WithBoolean("overwrite", mcp.Description("Replace the destination if it exists")),
			),
			handler: s.handleCopyFile,
		},
		{
			tool: mcp.NewTool("free_space",
				mcp.WithDescription("Report used and free space of the volume holding a location"),
				mcp.WithString("location", mcp.Required(), mcp.Description("Path or URI on the volume")),
			),
			handler: s.handleFreeSpace,
		},
		{
			tool: mcp.NewTool("compare_checksum",
				mcp.WithDescription("Check whether two files have identical contents (SHA-256)"),
				mcp.WithString("first", mcp.Required(), mcp.Description("Path or URI of the first file")),
				mcp.WithString("second", mcp.Required(), mcp.Description("Path or URI of the second file")),
			),
			handler: s.handleCompareChecksum,
		},
		{
			tool: mcp.NewTool("display_name",
				mcp.WithDescription("Return the name a file manager shows for a location"),
				mcp.WithString("location", mcp.Required(), mcp.Description("Path or URI")),
			),
			handler: s.handleDisplayName,
		},
		{
			tool: mcp.NewTool("is_descendant",
				mcp.WithDescription("Check whether a location is equal to or nested inside another one"),
				mcp.WithString("descendant", mcp.Required(), mcp.Description("Candidate inner location")),
				mcp.WithString("ancestor", mcp.Required(), mcp.Description("Candidate outer location")),
			),
			handler: s.handleIsDescendant,
		},
		{
			tool: mcp.NewTool("guess_device_type",
				mcp.WithDescription("Guess the kind of device (USB Drive, Optical Media, ...) a location is stored on"),
				mcp.WithString("location", mcp.Required(), mcp.Description("Path or URI")),
			),
			handler: s.handleGuessDeviceType,
		},
	}
}

// parseArg turns a tool argument into a location with a supported scheme.
func (s *Server) parseArg(request mcp.CallToolRequest, name string) (location.Location, error) {
	raw, err := request.RequireString(name)
	if err != nil {
		return location.Location{}, err
	}
	loc, err := location.ParseCommandline(raw)
	if err != nil {
		return location.Location{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	if !s.config.IsSchemeSupported(loc) {
		return location.Location{}, fmt.Errorf("unsupported scheme %q in %s", loc.Scheme(), name)
	}
	return loc, nil
}

// parseRootedArg is parseArg restricted to the allowed roots.
func (s *Server) parseRootedArg(request mcp.CallToolRequest, name string) (location.Location, error) {
	loc, err := s.parseArg(request, name)
	if err != nil {
		return location.Location{}, err
	}
	if err := fileops.ValidateWithinRoots(loc, s.roots); err != nil {
		s.logger.Warn("Rejected location outside allowed roots", "argument", name, "location", loc.String())
		return location.Location{}, err
	}
	return loc, nil
}

func (s *Server) handleCopyFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := s.parseRootedArg(request, "source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dst, err := s.parseRootedArg(request, "destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := fileops.CopyOptions{UsePartial: s.config.UsePartial}
	if request.GetBool("overwrite", false) {
		opts.Flags |= fileops.CopyOverwrite
	}

	if err := s.files.Copy(ctx, src, dst, opts); err != nil {
		s.logger.Error("copy_file failed", "source", src.String(), "destination", dst.String(), "error", err)
		return mcp.NewToolResultErrorFromErr("copy failed", err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("copied %s to %s", src, dst)), nil
}

func (s *Server) handleFreeSpace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.parseRootedArg(request, "location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text := volume.FreeSpaceString(loc, s.config.FileSizeBinary)
	if text == "" {
		return mcp.NewToolResultError(fmt.Sprintf("free space of %s is unavailable", loc)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleCompareChecksum(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	first, err := s.parseRootedArg(request, "first")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	second, err := s.parseRootedArg(request, "second")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	equal, err := s.files.CompareChecksum(ctx, first, second)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("checksum comparison failed", err), nil
	}
	if equal {
		return mcp.NewToolResultText("identical"), nil
	}
	return mcp.NewToolResultText("different"), nil
}

func (s *Server) handleDisplayName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.parseArg(request, "location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !loc.IsNative() && loc.Host() != "" {
		return mcp.NewToolResultText(location.RemoteDisplayName(loc)), nil
	}
	return mcp.NewToolResultText(location.DisplayName(loc)), nil
}

func (s *Server) handleIsDescendant(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	descendant, err := s.parseArg(request, "descendant")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ancestor, err := s.parseArg(request, "ancestor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strconv.FormatBool(location.IsDescendant(descendant, ancestor))), nil
}

func (s *Server) handleGuessDeviceType(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.parseRootedArg(request, "location")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deviceType, err := s.volumes.GuessDeviceType(loc)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to read mount table", err), nil
	}
	if deviceType == "" {
		deviceType = "unknown"
	}
	return mcp.NewToolResultText(deviceType), nil
}
