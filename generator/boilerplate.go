// This file renders the run-level boilerplate: the requester contract, the
// reference fetch-based requester, the custom requester scaffold, and the
// output README.

package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studiographene/SGSchemaSync/config"
)

const generatedHeader = "// Generated by sg-schema-sync. DO NOT EDIT.\n\n"

// renderRequesterContract renders the transport type contract shared by
// every generated file.
func renderRequesterContract() string {
	var b strings.Builder
	b.WriteString(`/** A normalized, transport-agnostic request. */
export interface RequestDescriptor {
  method: string;
  url: string;
  body?: unknown;
  query?: unknown;
  headers?: Record<string, string>;
  authRequired: boolean;
}

/** Opaque per-call flags forwarded to the requester untouched. */
export interface RequestFlags {
  [key: string]: unknown;
}

/** The requester's uniform response shape. Errors are flagged, not thrown. */
export interface ResponseEnvelope<TData = unknown> {
  data: TData;
  status: number;
  statusText: string;
  headers: Record<string, string>;
  isError?: boolean;
}

export type Requester = (
  request: RequestDescriptor,
  flags?: RequestFlags,
) => Promise<ResponseEnvelope>;
`)
	return b.String()
}

// renderRequesterModule renders requester.ts. In default mode it carries
// the contract plus the reference fetch implementation; in custom mode the
// contract only, since the orchestrator imports the user's requester.
func renderRequesterModule(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString(generatedHeader)

	if cfg.Requester.Mode == config.RequesterModeCustom {
		b.WriteString(renderRequesterContract())
		return b.String()
	}

	fmt.Fprintf(&b, "import { getToken } from %q;\n\n", cfg.Requester.TokenModule)
	b.WriteString(renderRequesterContract())
	b.WriteString("\n")
	fmt.Fprintf(&b, "const baseURL = process.env.%s ?? \"\";\n\n", cfg.Requester.BaseURLEnv)
	b.WriteString(`const buildQuery = (query: unknown): string => {
  if (query === undefined || query === null) {
    return "";
  }
  const search = new URLSearchParams();
  for (const [key, value] of Object.entries(query as Record<string, unknown>)) {
    if (value === undefined || value === null) {
      continue;
    }
    search.append(key, String(value));
  }
  const encoded = search.toString();
  return encoded === "" ? "" : ` + "`?${encoded}`" + `;
};

const headerRecord = (headers: Headers): Record<string, string> => {
  const record: Record<string, string> = {};
  headers.forEach((value, key) => {
    record[key] = value;
  });
  return record;
};

/** Reference fetch-based requester. Transport failures surface as
 * error-flagged envelopes, never as thrown exceptions. */
export const defaultRequester: Requester = async (request) => {
  const headers: Record<string, string> = {
    "Content-Type": "application/json",
    ...request.headers,
  };
  if (request.authRequired) {
    const token = await getToken();
    if (token) {
      headers["Authorization"] = ` + "`Bearer ${token}`" + `;
    }
  }

  try {
    const res = await fetch(` + "`${baseURL}${request.url}${buildQuery(request.query)}`" + `, {
      method: request.method,
      headers,
      body: request.body === undefined ? undefined : JSON.stringify(request.body),
    });
    const text = await res.text();
    let data: unknown = undefined;
    if (text !== "") {
      try {
        data = JSON.parse(text);
      } catch {
        data = text;
      }
    }
    return {
      data,
      status: res.status,
      statusText: res.statusText,
      headers: headerRecord(res.headers),
      isError: !res.ok,
    };
  } catch (error) {
    return {
      data: error,
      status: 0,
      statusText: "network error",
      headers: {},
      isError: true,
    };
  }
};
`)
	return b.String()
}

// renderCustomRequesterScaffold renders the write-once starting point for a
// user-owned requester. It is never overwritten once present.
func renderCustomRequesterScaffold() string {
	var b strings.Builder
	b.WriteString("// Scaffold for a project-owned requester. Edit freely: this file is\n")
	b.WriteString("// written once and never overwritten by regeneration.\n\n")
	b.WriteString(`import type { Requester } from "./requester";

export const customRequester: Requester = async (request, flags) => {
  void flags;
  throw new Error(` + "`customRequester not implemented: ${request.method} ${request.url}`" + `);
};
`)
	return b.String()
}

// renderReadme renders the output-root README listing every generated
// group and its files.
func renderReadme(cfg *config.Config, groups []*TagGroup) string {
	var b strings.Builder
	b.WriteString("# Generated API client\n\n")
	fmt.Fprintf(&b, "Generated by sg-schema-sync from `%s`. Do not edit generated files;\n", cfg.Input)
	b.WriteString("re-run `sgschemasync generate` to refresh them.\n\n")
	b.WriteString("## Groups\n\n")

	sorted := make([]*TagGroup, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SanitizedTag < sorted[j].SanitizedTag })

	for _, g := range sorted {
		fmt.Fprintf(&b, "- `%s/`: %d operation(s): `%s`, `%s`",
			g.SanitizedTag, len(g.Operations), cfg.Files.Types, cfg.Files.API)
		if g.HasHooks {
			fmt.Fprintf(&b, ", `%s`", cfg.Files.Hooks)
		}
		fmt.Fprintf(&b, ", `%s`, `%s`\n", cfg.Files.Client, cfg.Files.Index)
	}
	return b.String()
}
